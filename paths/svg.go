package paths

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/JoshVarga/svgparser"
	"golang.org/x/net/html/charset"
)

func parseBounds(e *svgparser.Element) (Bounds, error) {
	if vb := strings.TrimSpace(e.Attributes["viewBox"]); vb != "" {
		f, err := parseFloatList(vb)
		if err != nil {
			return Bounds{}, fmt.Errorf("viewBox: %w", err)
		}
		if len(f) != 4 {
			return Bounds{}, fmt.Errorf("viewBox should have 4 numbers, got %q", vb)
		}
		return Bounds{
			Min: Point{X: f[0], Y: f[1]},
			Max: Point{X: f[0] + f[2], Y: f[1] + f[3]},
		}, nil
	}
	width, werr := strconv.ParseFloat(e.Attributes["width"], 64)
	height, herr := strconv.ParseFloat(e.Attributes["height"], 64)
	if werr != nil {
		return Bounds{}, werr
	}
	if herr != nil {
		return Bounds{}, herr
	}
	return Bounds{
		Max: Point{X: width, Y: height},
	}, nil
}

// parseFloatList parses numbers separated by whitespace and/or commas.
func parseFloatList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	return parseFloats(fields)
}

func parseFloats(a []string) ([]float64, error) {
	var r []float64
	for _, x := range a {
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
	return r, nil
}

func parseLine(ps *Paths, xform *svgXform, e *svgparser.Element) error {
	var ferr error
	pf := func(s string) float64 {
		if ferr != nil {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		ferr = err
		return f
	}
	x1 := pf(e.Attributes["x1"])
	x2 := pf(e.Attributes["x2"])
	y1 := pf(e.Attributes["y1"])
	y2 := pf(e.Attributes["y2"])
	if ferr != nil {
		return ferr
	}
	ps.P = append(ps.P, Path{
		Name: e.Attributes["id"],
		V:    []Point{xform.Apply(Point{X: x1, Y: y1}), xform.Apply(Point{X: x2, Y: y2})},
	})
	return nil
}

func parsePolyline(ps *Paths, xform *svgXform, e *svgparser.Element) error {
	f, err := parseFloatList(e.Attributes["points"])
	if err != nil {
		return err
	}
	if len(f)%2 != 0 {
		return fmt.Errorf("polyline has an odd number of coordinates")
	}
	p := Path{Name: e.Attributes["id"]}
	for i := 0; i < len(f); i += 2 {
		p.V = append(p.V, xform.Apply(Point{X: f[i], Y: f[i+1]}))
	}
	if e.Name == "polygon" && len(p.V) > 0 {
		p.V = append(p.V, p.V[0])
	}
	ps.P = append(ps.P, p)
	return nil
}

type xformScannerState int

const (
	xfsName xformScannerState = 1 + iota
	xfsBra
	xfsMaybeComma
	xfsArg
)

func svgXformTranslate(x, y float64) *svgXform {
	return &svgXform{
		M: [3][3]float64{
			{1, 0, x},
			{0, 1, y},
			{0, 0, 1},
		},
	}
}

func svgXformScale(x, y float64) *svgXform {
	return &svgXform{
		M: [3][3]float64{
			{x, 0, 0},
			{0, y, 0},
			{0, 0, 1},
		},
	}
}

func parseSingleXform(name string, args []string) (*svgXform, error) {
	fa, err := parseFloats(args)
	if err != nil {
		return nil, err
	}
	switch name {
	case "translate":
		if len(fa) != 1 && len(fa) != 2 {
			return nil, fmt.Errorf("translate should have one or two parameters: got %s", args)
		}
		if len(fa) == 1 {
			fa = append(fa, 0)
		}
		return svgXformTranslate(fa[0], fa[1]), nil
	case "scale":
		if len(fa) != 1 && len(fa) != 2 {
			return nil, fmt.Errorf("scale should have one or two parameters: got %s", args)
		}
		if len(fa) == 1 {
			fa = append(fa, fa[0])
		}
		return svgXformScale(fa[0], fa[1]), nil
	case "matrix":
		if len(fa) != 6 {
			return nil, fmt.Errorf("matrix should have six parameters: got %s", args)
		}
		return &svgXform{
			M: [3][3]float64{
				{fa[0], fa[2], fa[4]},
				{fa[1], fa[3], fa[5]},
				{0, 0, 1},
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown transform function %q", name)
	}
}

func parseSVGXForm(x string) (*svgXform, error) {
	var s scanner.Scanner
	xf := svgIdentity
	s.Init(strings.NewReader(x))
	state := xfsName
	fname := ""
	neg := false
	var args []string
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch state {
		case xfsName:
			if tok != scanner.Ident {
				return nil, fmt.Errorf("failed to parse transform: expected transform name, but got %q", s.TokenText())
			}
			fname = s.TokenText()
			state = xfsBra
		case xfsBra:
			if tok != '(' {
				return nil, fmt.Errorf("failed to parse transform: expected (, but got %q", s.TokenText())
			}
			state = xfsArg
		case xfsMaybeComma:
			if tok == ',' {
				state = xfsArg
				continue
			}
			fallthrough
		case xfsArg:
			switch {
			case tok == ')' && !neg:
				newxform, err := parseSingleXform(fname, args)
				if err != nil {
					return nil, err
				}
				xf = xf.Compose(newxform)
				state = xfsName
				args = nil
			case tok == '-' && !neg:
				neg = true
			case tok == scanner.Float || tok == scanner.Int:
				t := s.TokenText()
				if neg {
					t = "-" + t
					neg = false
				}
				args = append(args, t)
				state = xfsMaybeComma
			default:
				return nil, fmt.Errorf("unexpected token %q parsing transform %q", s.TokenText(), x)
			}
		}
	}
	if state != xfsName {
		return nil, fmt.Errorf("failed to parse transform: %q", x)
	}
	return xf, nil
}

// pathTokens splits path data into command letters and numbers.
func pathTokens(d string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case strings.IndexByte("MmLlHhVvZz", c) >= 0:
			toks = append(toks, string(c))
			i++
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			dot := c == '.'
			for j < len(d) {
				cj := d[j]
				if cj >= '0' && cj <= '9' {
					j++
				} else if cj == '.' && !dot {
					dot = true
					j++
				} else if (cj == 'e' || cj == 'E') && j+1 < len(d) {
					j++
					if d[j] == '-' || d[j] == '+' {
						j++
					}
				} else {
					break
				}
			}
			toks = append(toks, d[i:j])
			i = j
		default:
			return nil, fmt.Errorf("unsupported path command %q", string(c))
		}
	}
	return toks, nil
}

func parsePath(ps *Paths, xf *svgXform, e *svgparser.Element) error {
	toks, err := pathTokens(e.Attributes["d"])
	if err != nil {
		return err
	}
	name := e.Attributes["id"]
	var cmd byte
	var cur, start Point
	var started bool
	num := func(i int) (float64, error) {
		if i >= len(toks) {
			return 0, fmt.Errorf("path ends after command %q", string(cmd))
		}
		return strconv.ParseFloat(toks[i], 64)
	}
	for i := 0; i < len(toks); {
		t := toks[i]
		if len(t) == 1 && strings.Contains("MmLlHhVvZz", t) {
			cmd = t[0]
			i++
			if cmd == 'Z' || cmd == 'z' {
				if started {
					ps.P[len(ps.P)-1].V = append(ps.P[len(ps.P)-1].V, xf.Apply(start))
				}
				cur = start
				continue
			}
			if i >= len(toks) {
				return fmt.Errorf("path ends after command %q", t)
			}
			continue
		}
		if cmd == 0 {
			return fmt.Errorf("path data must start with a command, got %q", t)
		}
		var next Point
		switch cmd {
		case 'M', 'm', 'L', 'l':
			x, err := num(i)
			if err != nil {
				return err
			}
			y, err := num(i + 1)
			if err != nil {
				return err
			}
			i += 2
			next = Point{X: x, Y: y}
			if cmd == 'm' || cmd == 'l' {
				next = Point{X: cur.X + x, Y: cur.Y + y}
			}
		case 'H', 'h', 'V', 'v':
			v, err := num(i)
			if err != nil {
				return err
			}
			i++
			next = cur
			switch cmd {
			case 'H':
				next.X = v
			case 'h':
				next.X += v
			case 'V':
				next.Y = v
			case 'v':
				next.Y += v
			}
		default:
			return fmt.Errorf("path data has numbers after %q", string(cmd))
		}
		if cmd == 'M' || cmd == 'm' {
			ps.P = append(ps.P, Path{Name: name, V: []Point{xf.Apply(next)}})
			start = next
			started = true
			// Pairs after a move are implicit lines.
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}
		} else {
			if !started {
				return fmt.Errorf("path draws before the first move")
			}
			ps.P[len(ps.P)-1].V = append(ps.P[len(ps.P)-1].V, xf.Apply(next))
		}
		cur = next
	}
	return nil
}

type svgXform struct {
	M [3][3]float64
}

func (xf *svgXform) Compose(xf2 *svgXform) *svgXform {
	var a svgXform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				a.M[i][k] += xf.M[i][j] * xf2.M[j][k]
			}
		}
	}
	return &a
}

func (xf *svgXform) Apply(v Point) Point {
	x := [3]float64{v.X, v.Y, 1.0}
	var r [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i] += xf.M[i][j] * x[j]
		}
	}
	return Point{X: r[0] / r[2], Y: r[1] / r[2]}
}

var svgIdentity = &svgXform{
	M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
}

func parsePaths(p *Paths, xform *svgXform, e *svgparser.Element) error {
	for _, c := range e.Children {
		xf := xform
		if t := c.Attributes["transform"]; t != "" {
			cxf, err := parseSVGXForm(t)
			if err != nil {
				return err
			}
			xf = xform.Compose(cxf)
		}
		var err error
		switch c.Name {
		case "g":
			err = parsePaths(p, xf, c)
		case "path":
			err = parsePath(p, xf, c)
		case "line":
			err = parseLine(p, xf, c)
		case "polyline", "polygon":
			err = parsePolyline(p, xf, c)
		}
		if err != nil {
			return fmt.Errorf("<%s id=%q>: %w", c.Name, c.Attributes["id"], err)
		}
	}
	return nil
}

// FromSVG parses an SVG file, extracting paths.
// This provides only limited SVG parsing support: straight-line
// path commands, line, polyline and polygon elements, and groups with
// translate, scale and matrix transforms. Other elements are ignored.
func FromSVG(r io.Reader) (p *Paths, rerr error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charset.NewReaderLabel
	elt, err := svgparser.DecodeFirst(decoder)
	if err != nil {
		return nil, err
	}
	if err := elt.Decode(decoder); err != nil && err != io.EOF {
		return nil, err
	}
	bs, err := parseBounds(elt)
	if err != nil {
		return nil, err
	}
	p = &Paths{Bounds: bs}
	return p, parsePaths(p, svgIdentity, elt)
}

var (
	svgh = `<svg height="%g" width="%g" viewBox="%g %g %g %g" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`
)

// SVG writes an SVG file that contains black strokes along the paths.
// Named paths carry their name as the element id.
func (ps *Paths) SVG(w io.Writer) error {
	var werr error
	bi := bufio.NewWriter(w)
	wr := func(f string, args ...interface{}) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bi, f, args...)
	}
	b := ps.Bounds
	wr(svgh, b.Height(), b.Width(), b.Min.X, b.Min.Y, b.Width(), b.Height())
	wr("\n")
	wr("<g fill=\"none\" stroke=\"black\" stroke-width=\"0.1\">\n")
	for _, p := range ps.P {
		if len(p.V) == 0 {
			continue
		}
		wr(`<path`)
		if p.Name != "" {
			wr(` id="%s"`, html.EscapeString(p.Name))
		}
		wr(` d="`)
		for i, v := range p.V {
			if i == 0 {
				wr("M %g,%g", v.X, v.Y)
			} else {
				wr(" %g,%g", v.X, v.Y)
			}
		}
		wr("\"/>\n")
	}
	wr("</g>")
	wr("</svg>")
	if werr == nil {
		werr = bi.Flush()
	}
	return werr
}

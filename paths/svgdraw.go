package paths

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"
)

// FromSVGDrawing parses an SVG file through its drawing instructions. It
// understands more of the path syntax than FromSVG (relative commands,
// curves and arcs), but curves are reduced to straight segments between
// their end points, so the result is only as detailed as the drawing's
// nodes. Paths are not named.
func FromSVGDrawing(r io.Reader) (*Paths, error) {
	s, err := svg.ParseSvgFromReader(r, "", 1.0)
	if err != nil {
		return nil, err
	}
	ps := &Paths{}

	dis, errs := s.ParseDrawingInstructions()
	var start Point
	var started bool
	at := func(t *svg.Tuple) (Point, bool) {
		if t == nil {
			return Point{}, false
		}
		return Point{X: t[0], Y: t[1]}, true
	}
	for dis != nil || errs != nil {
		select {
		case di, ok := <-dis:
			if !ok {
				dis = nil
				continue
			}
			switch di.Kind {
			case svg.MoveInstruction:
				if v, ok := at(di.M); ok {
					ps.P = append(ps.P, Path{V: []Point{v}})
					start, started = v, true
				}
			case svg.LineInstruction, svg.CurveInstruction:
				v, ok := at(di.T)
				if !ok {
					v, ok = at(di.M)
				}
				if ok && started {
					ps.line(v)
				}
			case svg.CloseInstruction:
				if started {
					ps.line(start)
				}
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("svg drawing: %w", err)
			}
		}
	}

	w, werr := strconv.ParseFloat(strings.TrimSuffix(s.Width, "px"), 64)
	h, herr := strconv.ParseFloat(strings.TrimSuffix(s.Height, "px"), 64)
	if werr == nil && herr == nil {
		ps.Bounds = Bounds{Max: Point{X: w, Y: h}}
	} else {
		ps.TightenBounds()
	}
	return ps, nil
}

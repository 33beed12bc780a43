// Package chartapprox provides the functionality for the
// chartapprox binary as a library.
package chartapprox

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/config"
	"github.com/paulhankin/chartapprox/paths"
	"github.com/paulhankin/chartapprox/series"
	"github.com/paulhankin/chartapprox/store"
)

// Size is a width and height, set from a "w,h" flag. Either part may be
// left empty.
type Size struct {
	W, H float64
}

func (sz *Size) String() string {
	return fmt.Sprintf("%g,%g", sz.W, sz.H)
}

func parseSizePart(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && v < 0 {
		err = fmt.Errorf("%g is negative", v)
	}
	return v, err
}

func (sz *Size) Set(s string) error {
	var err error
	parts := strings.Split(s, ",")
	if len(parts) == 1 {
		sz.W, err = parseSizePart(parts[0])
		return err
	}
	if len(parts) > 2 {
		return fmt.Errorf("can't parse %q as size", s)
	}
	if sz.W, err = parseSizePart(parts[0]); err != nil {
		return err
	}
	if sz.H, err = parseSizePart(parts[1]); err != nil {
		return err
	}
	return nil
}

func (sz *Size) Type() string {
	return "w,h"
}

// IsZero reports whether neither dimension is set.
func (sz Size) IsZero() bool {
	return sz.W == 0 && sz.H == 0
}

// Range is an interval of x values, set from a "lo,hi" flag. An empty part
// leaves that side open. The zero Range means no limit.
type Range struct {
	Lo, Hi float64
}

func (r *Range) String() string {
	return fmt.Sprintf("%g,%g", r.Lo, r.Hi)
}

func (r *Range) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("can't parse %q as lo,hi", s)
	}
	bound := func(s string, open float64) (float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return open, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	lo, err := bound(parts[0], math.Inf(-1))
	if err != nil {
		return err
	}
	hi, err := bound(parts[1], math.Inf(1))
	if err != nil {
		return err
	}
	if !(lo <= hi) {
		return fmt.Errorf("range %q is empty", s)
	}
	r.Lo, r.Hi = lo, hi
	return nil
}

func (r *Range) Type() string {
	return "lo,hi"
}

// IsZero reports whether r leaves x unlimited.
func (r Range) IsZero() bool {
	return r.Lo == 0 && r.Hi == 0
}

// clip keeps the part of s whose x lies in r. The series is cut where it
// crosses the window edges, and the pieces inside are joined in order.
func (r Range) clip(s *series.Series) *series.Series {
	if r.IsZero() {
		return s
	}
	inf := math.Inf(1)
	b := paths.Bounds{Min: paths.Point{X: r.Lo, Y: -inf}, Max: paths.Point{X: r.Hi, Y: inf}}
	out := &series.Series{ID: s.ID, Name: s.Name}
	if len(s.Points) < 2 {
		for _, p := range s.Points {
			if b.Contains(p) {
				out.Points = append(out.Points, p)
			}
		}
		return out
	}
	ps := paths.FromSeries(s)
	ps.Clip(b)
	for _, p := range ps.P {
		v := p.V
		if n := len(out.Points); n > 0 && out.Points[n-1] == v[0] {
			v = v[1:]
		}
		out.Points = append(out.Points, v...)
	}
	return out
}

// Source names where series are read from: a CSV file, or a series in a
// store when DB is set. Window limits the x range of every series.
type Source struct {
	In      string
	XColumn string
	DB      string
	Series  string
	Window  Range
}

func (src *Source) load(ctx context.Context) ([]*series.Series, error) {
	ss, err := src.read(ctx)
	if err != nil {
		return nil, err
	}
	for i, s := range ss {
		ss[i] = src.Window.clip(s)
	}
	return ss, nil
}

func (src *Source) read(ctx context.Context) ([]*series.Series, error) {
	if src.DB != "" {
		if src.Series == "" {
			return nil, fmt.Errorf("a series name must be given with a database")
		}
		st, err := store.Open(src.DB)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		s, err := st.Get(ctx, src.Series)
		if err != nil {
			return nil, err
		}
		return []*series.Series{s}, nil
	}

	if src.In == "" {
		return nil, fmt.Errorf("input file must be specified")
	}
	f, err := os.Open(src.In)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ss, err := series.ReadCSV(f, series.CSVOptions{XColumn: src.XColumn})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.In, err)
	}
	if src.Series != "" {
		s := series.Find(ss, src.Series)
		if s == nil {
			return nil, fmt.Errorf("%s has no series %q", src.In, src.Series)
		}
		return []*series.Series{s}, nil
	}
	return ss, nil
}

// filters returns the filter to use for each series: the entry in the
// config file if one is given, otherwise base.
func filters(configFile string, base approx.Filter) (func(name string) approx.Filter, error) {
	if configFile == "" {
		if err := base.Validate(); err != nil {
			return nil, err
		}
		return func(string) approx.Filter { return base }, nil
	}
	cf, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cf.For, nil
}

// fit sets the filter's axis ratios so that the series' extent fills vp,
// which makes the tolerance a distance in viewport units.
func fit(f approx.Filter, s *series.Series, vp Size) approx.Filter {
	if vp.IsZero() {
		return f
	}
	min, max, ok := s.Bounds()
	if !ok {
		return f
	}
	if w := max.X - min.X; vp.W > 0 && w > 0 {
		f.XRatio = vp.W / w
	}
	if h := max.Y - min.Y; vp.H > 0 && h > 0 {
		f.YRatio = vp.H / h
	}
	return f
}

func outputName(out, name string) string {
	ext := filepath.Ext(out)
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSuffix(out, ext) + "-" + safe + ext
}

func toStdout(out string) bool {
	return out == "" || out == "-"
}

// writeSeries writes one series to out, or several to one file each next
// to out. An empty out or "-" means stdout, which takes a single series.
func writeSeries(out string, stdout io.Writer, ss []*series.Series) error {
	if toStdout(out) {
		if len(ss) != 1 {
			return fmt.Errorf("%d series need an output file", len(ss))
		}
		return series.WriteCSV(stdout, ss[0])
	}
	for _, s := range ss {
		name := out
		if len(ss) > 1 {
			name = outputName(out, s.Name)
		}
		if err := writeFile(name, func(w io.Writer) error { return series.WriteCSV(w, s) }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, write func(w io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func stdoutOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

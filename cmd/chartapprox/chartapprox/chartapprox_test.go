package chartapprox

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/paths"
	"github.com/paulhankin/chartapprox/series"
	"github.com/paulhankin/chartapprox/store"
)

const testCSV = `x,a,b
0,0,0
1,0.01,0
2,0,0
3,10,0
4,0,0
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readSeries(t *testing.T, path string) *series.Series {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	ss, err := series.ReadCSV(f, series.CSVOptions{})
	require.NoError(t, err)
	require.Len(t, ss, 1)
	return ss[0]
}

func pts(vs ...float64) []approx.Point {
	var r []approx.Point
	for i := 0; i+1 < len(vs); i += 2 {
		r = append(r, approx.Point{X: vs[i], Y: vs[i+1]})
	}
	return r
}

func rdp(tol float64) approx.Filter {
	return approx.Filter{Mode: approx.RamerDouglasPeucker, Tolerance: tol}
}

func TestSize(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Size
	}{
		{"3,4", Size{W: 3, H: 4}},
		{"5", Size{W: 5}},
		{",7", Size{H: 7}},
		{" 1.5 , 2 ", Size{W: 1.5, H: 2}},
	} {
		var sz Size
		if assert.NoError(t, sz.Set(tc.in), tc.in) {
			assert.Equal(t, tc.want, sz, tc.in)
		}
	}
	for _, bad := range []string{"1,2,3", "x", "-1", "1,-2"} {
		var sz Size
		assert.Error(t, sz.Set(bad), bad)
	}
	assert.Equal(t, "3,4", (&Size{W: 3, H: 4}).String())
}

func TestSimplifyFiles(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	out := filepath.Join(t.TempDir(), "out.csv")

	err := Simplify(context.Background(), &SimplifyConfig{
		Source: Source{In: in},
		Out:    out,
		Filter: rdp(2),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	a := readSeries(t, filepath.Join(filepath.Dir(out), "out-a.csv"))
	if diff := cmp.Diff(pts(0, 0, 3, 10, 4, 0), a.Points); diff != "" {
		t.Errorf("series a mismatch (-want +got):\n%s", diff)
	}
	b := readSeries(t, filepath.Join(filepath.Dir(out), "out-b.csv"))
	if diff := cmp.Diff(pts(0, 0, 4, 0), b.Points); diff != "" {
		t.Errorf("series b mismatch (-want +got):\n%s", diff)
	}
}

func TestSimplifyStdout(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	var buf bytes.Buffer
	err := Simplify(context.Background(), &SimplifyConfig{
		Source: Source{In: in, Series: "a"},
		Filter: rdp(1),
		Stdout: &buf,
	})
	require.NoError(t, err)
	assert.Equal(t, "x,a\n0,0\n2,0\n3,10\n4,0\n", buf.String())

	err = Simplify(context.Background(), &SimplifyConfig{
		Source: Source{In: in},
		Filter: rdp(1),
		Stdout: &buf,
	})
	assert.ErrorContains(t, err, "2 series need an output file")
}

func TestSimplifyLogsDeviation(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	core, logs := observer.New(zap.InfoLevel)

	err := Simplify(context.Background(), &SimplifyConfig{
		Source: Source{In: in, Series: "a"},
		Filter: rdp(2),
		Logger: zap.New(core),
		Stdout: &bytes.Buffer{},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("simplified series").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a", fields["name"])
	assert.Equal(t, int64(5), fields["points"])
	assert.Equal(t, int64(3), fields["kept"])
	assert.InDelta(t, 1.92, fields["max_deviation"], 0.01)
}

func TestSimplifyConfigFile(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	cf := writeTemp(t, "approx.yaml", "defaults: {mode: rdp, tolerance: 2}\nseries:\n  a: {mode: none}\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	err := Simplify(context.Background(), &SimplifyConfig{
		Source:     Source{In: in},
		Out:        out,
		ConfigFile: cf,
		Logger:     zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Len(t, readSeries(t, filepath.Join(filepath.Dir(out), "out-a.csv")).Points, 5)
	assert.Len(t, readSeries(t, filepath.Join(filepath.Dir(out), "out-b.csv")).Points, 2)
}

func TestSimplifyViewport(t *testing.T) {
	in := writeTemp(t, "data.csv", "x,y\n0,0\n50,1\n100,0\n")

	run := func(vp Size) string {
		var buf bytes.Buffer
		err := Simplify(context.Background(), &SimplifyConfig{
			Source:   Source{In: in},
			Filter:   rdp(0.5),
			Viewport: vp,
			Stdout:   &buf,
		})
		require.NoError(t, err)
		return buf.String()
	}
	assert.Equal(t, "x,y\n0,0\n50,1\n100,0\n", run(Size{}))
	// A quarter unit tall viewport squashes the bump below the tolerance.
	assert.Equal(t, "x,y\n0,0\n100,0\n", run(Size{W: 100, H: 0.25}))
}

func TestSimplifyHalfViewport(t *testing.T) {
	in := writeTemp(t, "data.csv", "x,y\n0,0\n50,1\n100,0\n")
	for _, vp := range []Size{{W: 100}, {H: 0.25}} {
		err := Simplify(context.Background(), &SimplifyConfig{
			Source:   Source{In: in},
			Filter:   rdp(0.5),
			Viewport: vp,
			Stdout:   &bytes.Buffer{},
		})
		assert.ErrorContains(t, err, "needs both a width and a height", "%v", vp)
	}
}

func TestRange(t *testing.T) {
	inf := math.Inf(1)
	for _, tc := range []struct {
		in   string
		want Range
	}{
		{"1,3", Range{Lo: 1, Hi: 3}},
		{",5", Range{Lo: -inf, Hi: 5}},
		{" 2 , ", Range{Lo: 2, Hi: inf}},
		{"4,4", Range{Lo: 4, Hi: 4}},
	} {
		var r Range
		if assert.NoError(t, r.Set(tc.in), tc.in) {
			assert.Equal(t, tc.want, r, tc.in)
		}
	}
	for _, bad := range []string{"3,1", "1", "1,2,3", "a,b"} {
		var r Range
		assert.Error(t, r.Set(bad), bad)
	}
}

func TestRangeClip(t *testing.T) {
	s := &series.Series{ID: "id", Name: "a", Points: pts(0, 0, 1, 0.01, 2, 0, 3, 10, 4, 0)}
	for _, tc := range []struct {
		r    Range
		want []approx.Point
	}{
		{Range{}, s.Points},
		{Range{Lo: 0.5, Hi: 3.5}, pts(0.5, 0.005, 1, 0.01, 2, 0, 3, 10, 3.5, 5)},
		{Range{Lo: 1, Hi: 3}, pts(1, 0.01, 2, 0, 3, 10)},
		{Range{Lo: math.Inf(-1), Hi: 2}, pts(0, 0, 1, 0.01, 2, 0)},
		{Range{Lo: 10, Hi: 20}, nil},
	} {
		got := tc.r.clip(s)
		assert.Equal(t, "a", got.Name)
		if diff := cmp.Diff(tc.want, got.Points); diff != "" {
			t.Errorf("%v.clip mismatch (-want +got):\n%s", tc.r, diff)
		}
	}

	// Zigzags in x are cut at each crossing and joined.
	zig := &series.Series{Name: "z", Points: pts(0, 0, 4, 4, 0, 8)}
	assert.Equal(t, pts(1, 1, 3, 3, 3, 5, 1, 7), Range{Lo: 1, Hi: 3}.clip(zig).Points)

	short := &series.Series{Name: "s", Points: pts(5, 5)}
	assert.Empty(t, Range{Lo: 0, Hi: 1}.clip(short).Points)
	assert.Equal(t, pts(5, 5), Range{Lo: 0, Hi: 10}.clip(short).Points)
}

func TestSimplifyWindow(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	var buf bytes.Buffer
	err := Simplify(context.Background(), &SimplifyConfig{
		Source: Source{In: in, Series: "a", Window: Range{Lo: 0.5, Hi: 3.5}},
		Stdout: &buf,
	})
	require.NoError(t, err)
	assert.Equal(t, "x,a\n0.5,0.005\n1,0.01\n2,0\n3,10\n3.5,5\n", buf.String())
}

func TestSimplifyErrors(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	ctx := context.Background()

	err := Simplify(ctx, &SimplifyConfig{Source: Source{In: in}, Filter: rdp(-1)})
	assert.ErrorIs(t, err, approx.ErrInvalidArgument)

	err = Simplify(ctx, &SimplifyConfig{Filter: rdp(1)})
	assert.ErrorContains(t, err, "input file")

	err = Simplify(ctx, &SimplifyConfig{Source: Source{In: in, Series: "c"}, Filter: rdp(1)})
	assert.ErrorContains(t, err, `no series "c"`)

	err = Simplify(ctx, &SimplifyConfig{Source: Source{In: filepath.Join(t.TempDir(), "missing.csv")}, Filter: rdp(1)})
	assert.Error(t, err)

	err = Simplify(ctx, &SimplifyConfig{Source: Source{DB: filepath.Join(t.TempDir(), "x.db")}, Filter: rdp(1)})
	assert.ErrorContains(t, err, "series name")
}

func TestReduce(t *testing.T) {
	in := writeTemp(t, "data.csv", testCSV)
	var buf bytes.Buffer
	err := Reduce(context.Background(), &ReduceConfig{
		Source: Source{In: in, Series: "a"},
		Count:  3,
		Logger: zaptest.NewLogger(t),
		Stdout: &buf,
	})
	require.NoError(t, err)
	assert.Equal(t, "x,a\n0,0\n3,10\n4,0\n", buf.String())

	err = Reduce(context.Background(), &ReduceConfig{Source: Source{In: in, Series: "a"}, Count: 1, Stdout: &buf})
	assert.ErrorIs(t, err, approx.ErrInvalidArgument)
}

func TestImportExportList(t *testing.T) {
	ctx := context.Background()
	in := writeTemp(t, "data.csv", testCSV)
	db := filepath.Join(t.TempDir(), "series.db")

	require.NoError(t, Import(ctx, &ImportConfig{DB: db, In: in, Logger: zaptest.NewLogger(t)}))

	var list bytes.Buffer
	require.NoError(t, List(ctx, &ListConfig{DB: db, Stdout: &list}))
	assert.Equal(t, "a\nb\n", list.String())

	var exported bytes.Buffer
	require.NoError(t, Export(ctx, &ExportConfig{DB: db, Series: "b", Stdout: &exported}))
	assert.Equal(t, "x,b\n0,0\n1,0\n2,0\n3,0\n4,0\n", exported.String())

	var simplified bytes.Buffer
	err := Simplify(ctx, &SimplifyConfig{
		Source: Source{DB: db, Series: "a"},
		Filter: rdp(2),
		Stdout: &simplified,
	})
	require.NoError(t, err)
	assert.Equal(t, "x,a\n0,0\n3,10\n4,0\n", simplified.String())

	err = Export(ctx, &ExportConfig{DB: db, Series: "c", Stdout: &exported})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Error(t, List(ctx, &ListConfig{DB: filepath.Join(t.TempDir(), "missing.db")}))
	assert.Error(t, Import(ctx, &ImportConfig{In: in}))
}

func TestAdjustSize(t *testing.T) {
	b := paths.Bounds{Max: paths.Point{X: 200, Y: 100}}
	for _, tc := range []struct {
		sz   Size
		want paths.Point
	}{
		{Size{}, paths.Point{X: 200, Y: 100}},
		{Size{W: 100}, paths.Point{X: 100, Y: 50}},
		{Size{H: 10}, paths.Point{X: 20, Y: 10}},
		{Size{W: 50, H: 25}, paths.Point{X: 50, Y: 25}},
	} {
		got, err := adjustSize(tc.sz, b)
		if assert.NoError(t, err, "%v", tc.sz) {
			assert.Equal(t, paths.Bounds{Max: tc.want}, got, "%v", tc.sz)
		}
	}
	_, err := adjustSize(Size{W: 100, H: 100}, b)
	assert.ErrorContains(t, err, "not compatible")
	_, err = adjustSize(Size{W: 100}, paths.Bounds{Max: paths.Point{Y: 10}})
	assert.Error(t, err)
}

func TestConvertSVG(t *testing.T) {
	in := writeTemp(t, "in.svg", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">
<polyline id="diag" points="10,10 30,30.2 50,50 70,69.9 90,90"/>
</svg>`)
	out := filepath.Join(t.TempDir(), "out.svg")

	err := ConvertSVG(&SVGConfig{
		In:        in,
		Out:       out,
		Size:      Size{W: 50},
		Tolerance: 1,
		Mode:      approx.RamerDouglasPeucker,
		Logger:    zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	ps, err := paths.FromSVG(f)
	require.NoError(t, err)
	require.Len(t, ps.P, 1)
	assert.Equal(t, pts(5, 5, 45, 45), ps.P[0].V)
	assert.Equal(t, paths.Bounds{Max: paths.Point{X: 50, Y: 50}}, ps.Bounds)

	assert.ErrorContains(t, ConvertSVG(&SVGConfig{}), "input file")
}

func TestPlot(t *testing.T) {
	ctx := context.Background()
	in := writeTemp(t, "data.csv", testCSV)
	dir := t.TempDir()

	for _, name := range []string{"a.png", "a.svg", "a.html"} {
		out := filepath.Join(dir, name)
		err := Plot(ctx, &PlotConfig{
			Source: Source{In: in, Series: "a"},
			Out:    out,
			Filter: rdp(2),
			Size:   Size{W: 320, H: 200},
			Logger: zaptest.NewLogger(t),
		})
		require.NoError(t, err, name)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.NotEmpty(t, data, name)
		if strings.HasSuffix(name, ".html") {
			assert.Contains(t, string(data), "simplified")
		}
	}

	err := Plot(ctx, &PlotConfig{Source: Source{In: in, Series: "a"}, Out: filepath.Join(dir, "a.gif"), Filter: rdp(2)})
	assert.ErrorContains(t, err, "a.gif")

	err = Plot(ctx, &PlotConfig{Source: Source{In: in}, Out: filepath.Join(dir, "b.png"), Filter: rdp(2)})
	assert.ErrorContains(t, err, "exactly one series")
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = NewLogger(false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

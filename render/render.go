// Package render draws a series next to its simplification, for checking
// how much of the shape a tolerance throws away.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/paulhankin/chartapprox/approx"
)

// Options control the chart decoration and size.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	// Width and Height are in pixels. Zero means 900x450.
	Width, Height int
}

func (o Options) size() (w, h int) {
	w, h = o.Width, o.Height
	if w <= 0 {
		w = 900
	}
	if h <= 0 {
		h = 450
	}
	return w, h
}

var (
	originalColor   = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	simplifiedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Formats lists the formats Plot accepts.
var Formats = []string{"png", "svg", "pdf"}

func xys(points []approx.Point) plotter.XYs {
	out := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, plotter.XY{X: p.X, Y: p.Y})
	}
	return out
}

// Plot writes a static chart in the given format (png, svg or pdf). The
// original series is drawn as a thin grey line, the simplified one on top
// of it with a marker on every kept point.
func Plot(w io.Writer, format string, original, simplified []approx.Point, opt Options) error {
	switch format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("unsupported plot format %q", format)
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	p.Add(plotter.NewGrid())

	origLine, err := plotter.NewLine(xys(original))
	if err != nil {
		return fmt.Errorf("original line: %w", err)
	}
	origLine.Width = vg.Points(1)
	origLine.Color = originalColor
	p.Add(origLine)
	p.Legend.Add(fmt.Sprintf("original (%d)", len(original)), origLine)

	simplePts := xys(simplified)
	simpleLine, err := plotter.NewLine(simplePts)
	if err != nil {
		return fmt.Errorf("simplified line: %w", err)
	}
	simpleLine.Width = vg.Points(1.5)
	simpleLine.Color = simplifiedColor
	marks, err := plotter.NewScatter(simplePts)
	if err != nil {
		return fmt.Errorf("simplified points: %w", err)
	}
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	marks.GlyphStyle.Radius = vg.Points(2)
	marks.GlyphStyle.Color = simplifiedColor
	p.Add(simpleLine, marks)
	p.Legend.Add(fmt.Sprintf("simplified (%d)", len(simplified)), simpleLine, marks)
	p.Legend.Top = true

	pw, ph := opt.size()
	wt, err := p.WriterTo(pixels(pw), pixels(ph), format)
	if err != nil {
		return fmt.Errorf("create %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// pixels converts a pixel count at 96 dpi, the raster canvas default.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/paulhankin/chartapprox/approx"
)

func lineData(points []approx.Point) []opts.LineData {
	out := make([]opts.LineData, 0, len(points))
	for _, p := range xys(points) {
		out = append(out, opts.LineData{Value: []interface{}{p.X, p.Y}})
	}
	return out
}

// HTML writes an interactive page with the original and simplified series
// on a shared value x axis.
func HTML(w io.Writer, original, simplified []approx.Point, opt Options) error {
	pw, ph := opt.size()
	title := opt.Title
	if title == "" {
		title = "chartapprox"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: fmt.Sprintf("%dpx", pw), Height: fmt.Sprintf("%dpx", ph)}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("original=%d simplified=%d", len(original), len(simplified))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: opt.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: opt.YLabel, NameLocation: "middle", NameGap: 30}),
	)
	line.AddSeries("original", lineData(original),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#a0a0a0"}),
	)
	line.AddSeries("simplified", lineData(simplified),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}),
	)

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

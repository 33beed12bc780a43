package chartapprox

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/render"
)

type PlotConfig struct {
	Source
	// Out is the preview file. Its extension picks the format: .html for
	// an interactive page, or one of render.Formats.
	Out string

	Filter     approx.Filter
	ConfigFile string
	Size       Size

	Logger *zap.Logger
}

// Plot draws one series over its simplification.
func Plot(ctx context.Context, cfg *PlotConfig) error {
	log := logger(cfg.Logger)
	if cfg.Out == "" {
		return fmt.Errorf("output file must be specified")
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(cfg.Out), "."))
	if format != "html" && !slices.Contains(render.Formats, format) {
		return fmt.Errorf("can't plot to %q: use .html or one of %v", cfg.Out, render.Formats)
	}

	filterFor, err := filters(cfg.ConfigFile, cfg.Filter)
	if err != nil {
		return err
	}
	ss, err := cfg.Source.load(ctx)
	if err != nil {
		return err
	}
	if len(ss) != 1 {
		return fmt.Errorf("plot needs exactly one series, found %d", len(ss))
	}
	s := ss[0]

	kept, err := filterFor(s.Name).ApplyIndices(s.Points)
	if err != nil {
		return fmt.Errorf("series %q: %w", s.Name, err)
	}
	r, err := report(log, s, kept)
	if err != nil {
		return err
	}

	opt := render.Options{
		Title:  s.Name,
		XLabel: "x",
		YLabel: s.Name,
		Width:  int(cfg.Size.W),
		Height: int(cfg.Size.H),
	}
	return writeFile(cfg.Out, func(w io.Writer) error {
		if format == "html" {
			return render.HTML(w, s.Points, r.Points, opt)
		}
		return render.Plot(w, format, s.Points, r.Points, opt)
	})
}

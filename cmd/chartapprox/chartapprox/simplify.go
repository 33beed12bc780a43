package chartapprox

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/series"
)

type SimplifyConfig struct {
	Source
	Out string

	// Filter applies to every series unless ConfigFile is set.
	Filter     approx.Filter
	ConfigFile string
	// Viewport, when set, scales each series to this size before
	// filtering, so the tolerance is in viewport units. Both dimensions
	// must be given.
	Viewport Size

	Logger *zap.Logger
	Stdout io.Writer
}

// Simplify filters every series of the source and writes the result as CSV.
func Simplify(ctx context.Context, cfg *SimplifyConfig) error {
	log := logger(cfg.Logger)
	if vp := cfg.Viewport; !vp.IsZero() && (vp.W == 0 || vp.H == 0) {
		return fmt.Errorf("viewport %v needs both a width and a height", &vp)
	}
	filterFor, err := filters(cfg.ConfigFile, cfg.Filter)
	if err != nil {
		return err
	}
	ss, err := cfg.Source.load(ctx)
	if err != nil {
		return err
	}

	var out []*series.Series
	for _, s := range ss {
		f := fit(filterFor(s.Name), s, cfg.Viewport)
		log.Debug("filtering series", zap.String("name", s.Name), zap.Stringer("mode", f.Mode),
			zap.Float64("tolerance", f.Tolerance), zap.Stringer("metric", f.Metric))
		kept, err := f.ApplyIndices(s.Points)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		r, err := report(log, s, kept)
		if err != nil {
			return err
		}
		out = append(out, r)
	}
	return writeSeries(cfg.Out, stdoutOr(cfg.Stdout), out)
}

type ReduceConfig struct {
	Source
	Out   string
	Count int

	Logger *zap.Logger
	Stdout io.Writer
}

// Reduce cuts every series of the source down to at most cfg.Count points.
func Reduce(ctx context.Context, cfg *ReduceConfig) error {
	log := logger(cfg.Logger)
	ss, err := cfg.Source.load(ctx)
	if err != nil {
		return err
	}

	var out []*series.Series
	for _, s := range ss {
		kept, err := approx.ReduceNIndices(s.Points, cfg.Count)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		r, err := report(log, s, kept)
		if err != nil {
			return err
		}
		out = append(out, r)
	}
	return writeSeries(cfg.Out, stdoutOr(cfg.Stdout), out)
}

// report logs how far the kept points stray from s, and returns them as a
// new series.
func report(log *zap.Logger, s *series.Series, kept []int) (*series.Series, error) {
	dev, err := approx.Measure(s.Points, kept)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", s.Name, err)
	}
	log.Info("simplified series",
		zap.String("name", s.Name),
		zap.Int("points", dev.Total),
		zap.Int("kept", dev.Kept),
		zap.Float64("max_deviation", dev.Max),
		zap.Float64("mean_deviation", dev.Mean),
		zap.Float64("p95_deviation", dev.P95),
	)
	r := &series.Series{Name: s.Name, Points: make([]approx.Point, len(kept))}
	for i, k := range kept {
		r.Points[i] = s.Points[k]
	}
	return r, nil
}

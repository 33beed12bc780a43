package chartapprox

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/paulhankin/chartapprox/store"
)

type ImportConfig struct {
	DB      string
	In      string
	XColumn string

	Logger *zap.Logger
}

// Import stores every series of a CSV file, replacing stored series of
// the same name.
func Import(ctx context.Context, cfg *ImportConfig) error {
	log := logger(cfg.Logger)
	if cfg.DB == "" {
		return fmt.Errorf("database must be specified")
	}
	ss, err := (&Source{In: cfg.In, XColumn: cfg.XColumn}).load(ctx)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	for _, s := range ss {
		if err := st.Put(ctx, s); err != nil {
			return err
		}
		log.Info("imported series", zap.String("name", s.Name), zap.String("id", s.ID), zap.Int("points", len(s.Points)))
	}
	return nil
}

type ExportConfig struct {
	DB     string
	Series string
	Out    string

	Stdout io.Writer
}

// Export writes a stored series as CSV.
func Export(ctx context.Context, cfg *ExportConfig) error {
	ss, err := (&Source{DB: cfg.DB, Series: cfg.Series}).load(ctx)
	if err != nil {
		return err
	}
	return writeSeries(cfg.Out, stdoutOr(cfg.Stdout), ss)
}

type ListConfig struct {
	DB string

	Stdout io.Writer
}

// List prints the names of the stored series, one per line.
func List(ctx context.Context, cfg *ListConfig) error {
	if cfg.DB == "" {
		return fmt.Errorf("database must be specified")
	}
	if _, err := os.Stat(cfg.DB); err != nil {
		return err
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	names, err := st.List(ctx)
	if err != nil {
		return err
	}
	w := stdoutOr(cfg.Stdout)
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

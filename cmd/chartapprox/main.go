package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/cmd/chartapprox/chartapprox"
)

var (
	flagVerbose bool
	log         = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "chartapprox",
	Short:         "Simplify chart series with Ramer-Douglas-Peucker",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := chartapprox.NewLogger(flagVerbose)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

func sourceFlags(fs *pflag.FlagSet, src *chartapprox.Source) {
	fs.StringVar(&src.In, "in", "", "csv input file")
	fs.StringVar(&src.XColumn, "x-column", "", "name of the x column (default: the first column)")
	fs.StringVar(&src.DB, "db", "", "read the series from this database instead of --in")
	fs.StringVar(&src.Series, "series", "", "only process the named series")
	fs.Var(&src.Window, "window", "only keep x values in this range, cutting the series at its edges")
}

func filterFlags(fs *pflag.FlagSet, f *approx.Filter, configFile *string) {
	f.Mode = approx.RamerDouglasPeucker
	fs.Var(&f.Mode, "mode", "approximation mode: none or rdp")
	fs.Float64Var(&f.Tolerance, "tolerance", 0, "largest distance of a dropped point from the simplified line")
	fs.Var(&f.Metric, "metric", "distance metric: perpendicular or angle (degrees)")
	fs.Float64Var(&f.XRatio, "x-ratio", 1, "scale applied to x before measuring distances")
	fs.Float64Var(&f.YRatio, "y-ratio", 1, "scale applied to y before measuring distances")
	fs.StringVar(configFile, "config", "", "per-series approximation file (.yaml, .yml or .json)")
}

func simplifyCmd() *cobra.Command {
	var cfg chartapprox.SimplifyConfig
	cmd := &cobra.Command{
		Use:   "simplify",
		Short: "Simplify every series of a csv file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = log
			return chartapprox.Simplify(cmd.Context(), &cfg)
		},
	}
	fs := cmd.Flags()
	sourceFlags(fs, &cfg.Source)
	filterFlags(fs, &cfg.Filter, &cfg.ConfigFile)
	fs.StringVar(&cfg.Out, "out", "", "csv output file; several series are written next to it (default: stdout)")
	fs.Var(&cfg.Viewport, "viewport", "scale each series to this size first, making the tolerance a viewport distance")
	return cmd
}

func reduceCmd() *cobra.Command {
	var cfg chartapprox.ReduceConfig
	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Reduce every series to at most --count points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = log
			return chartapprox.Reduce(cmd.Context(), &cfg)
		},
	}
	fs := cmd.Flags()
	sourceFlags(fs, &cfg.Source)
	fs.StringVar(&cfg.Out, "out", "", "csv output file (default: stdout)")
	fs.IntVar(&cfg.Count, "count", 100, "number of points to keep")
	return cmd
}

func svgCmd() *cobra.Command {
	cfg := chartapprox.SVGConfig{Mode: approx.RamerDouglasPeucker}
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Scale, clip and simplify the polylines of an svg file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = log
			return chartapprox.ConvertSVG(&cfg)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&cfg.In, "in", "", "svg input file")
	fs.StringVar(&cfg.Out, "out", "", "svg output file (default: stdout)")
	fs.Var(&cfg.Size, "size", "target size of the drawing")
	fs.Float64Var(&cfg.Tolerance, "tolerance", 0.1, "simplification tolerance in output units")
	fs.Var(&cfg.Mode, "mode", "approximation mode: none or rdp")
	fs.BoolVar(&cfg.Drawing, "drawing", false, "parse through drawing instructions (curves, relative commands)")
	return cmd
}

func importCmd() *cobra.Command {
	var cfg chartapprox.ImportConfig
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store the series of a csv file in a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = log
			return chartapprox.Import(cmd.Context(), &cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.DB, "db", "series.db", "database file")
	cmd.Flags().StringVar(&cfg.In, "in", "", "csv input file")
	cmd.Flags().StringVar(&cfg.XColumn, "x-column", "", "name of the x column (default: the first column)")
	return cmd
}

func exportCmd() *cobra.Command {
	var cfg chartapprox.ExportConfig
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored series as csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return chartapprox.Export(cmd.Context(), &cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.DB, "db", "series.db", "database file")
	cmd.Flags().StringVar(&cfg.Series, "series", "", "series name")
	cmd.Flags().StringVar(&cfg.Out, "out", "", "csv output file (default: stdout)")
	return cmd
}

func listCmd() *cobra.Command {
	var cfg chartapprox.ListConfig
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return chartapprox.List(cmd.Context(), &cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.DB, "db", "series.db", "database file")
	return cmd
}

func plotCmd() *cobra.Command {
	var cfg chartapprox.PlotConfig
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw a series over its simplification (png, svg, pdf or html)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = log
			return chartapprox.Plot(cmd.Context(), &cfg)
		},
	}
	fs := cmd.Flags()
	sourceFlags(fs, &cfg.Source)
	filterFlags(fs, &cfg.Filter, &cfg.ConfigFile)
	fs.StringVar(&cfg.Out, "out", "preview.png", "preview file; the extension picks the format")
	fs.Var(&cfg.Size, "size", "preview size in pixels")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug messages")
	rootCmd.AddCommand(
		simplifyCmd(),
		reduceCmd(),
		svgCmd(),
		importCmd(),
		exportCmd(),
		listCmd(),
		plotCmd(),
	)
}

func main() {
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

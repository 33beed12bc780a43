package chartapprox

import (
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/paths"
)

type SVGConfig struct {
	In  string
	Out string

	// Size is the size of the output drawing. Zero keeps the input's size,
	// and a single zero dimension keeps the input's aspect ratio.
	Size      Size
	Tolerance float64
	Mode      approx.Mode
	// Drawing reads the input through its drawing instructions, which
	// understands curves and relative path commands.
	Drawing bool

	Logger *zap.Logger
}

func adjustSize(sz Size, b paths.Bounds) (paths.Bounds, error) {
	ow, oh := b.Width(), b.Height()
	if sz.W == 0 && sz.H == 0 {
		sz.W, sz.H = ow, oh
	} else if sz.H == 0 {
		if ow == 0 {
			return paths.Bounds{}, fmt.Errorf("can't scale a drawing of zero width")
		}
		sz.H = sz.W * oh / ow
	} else if sz.W == 0 {
		if oh == 0 {
			return paths.Bounds{}, fmt.Errorf("can't scale a drawing of zero height")
		}
		sz.W = sz.H * ow / oh
	} else if ow != 0 && oh != 0 && !(math.Abs(sz.W/sz.H-ow/oh) < 1e-3) {
		return paths.Bounds{}, fmt.Errorf("target image size %v not compatible with image size %g,%g", &sz, ow, oh)
	}
	return paths.Bounds{Max: paths.Point{X: sz.W, Y: sz.H}}, nil
}

func readSVG(name string, drawing bool) (*paths.Paths, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if drawing {
		return paths.FromSVGDrawing(f)
	}
	return paths.FromSVG(f)
}

// ConvertSVG reads the polylines of an SVG file, scales them to the
// requested size, clips them to it, simplifies them and writes them as a
// new SVG file.
func ConvertSVG(cfg *SVGConfig) error {
	log := logger(cfg.Logger)
	if cfg.In == "" {
		return fmt.Errorf("input file must be specified")
	}

	ps, err := readSVG(cfg.In, cfg.Drawing)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.In, err)
	}

	bounds, err := adjustSize(cfg.Size, ps.Bounds)
	if err != nil {
		return err
	}
	ps.Transform(bounds)
	ps.Clip(ps.Bounds)

	before := ps.Len()
	removed, err := ps.Simplify(cfg.Tolerance, cfg.Mode)
	if err != nil {
		return err
	}
	log.Info("simplified drawing",
		zap.String("in", cfg.In),
		zap.Int("paths", len(ps.P)),
		zap.Int("points", before),
		zap.Int("removed", removed),
	)

	if toStdout(cfg.Out) {
		return ps.SVG(os.Stdout)
	}
	return writeFile(cfg.Out, func(w io.Writer) error { return ps.SVG(w) })
}

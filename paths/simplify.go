package paths

import (
	"fmt"

	"github.com/paulhankin/chartapprox/approx"
)

// Simplify removes points from paths, with the guarantee that
// all removed points are within the given tolerance (distance)
// from the new path. It returns how many points were removed.
// On error the paths are left unchanged.
func (ps *Paths) Simplify(tol float64, mode approx.Mode) (int, error) {
	return ps.Filter(approx.Filter{Mode: mode, Tolerance: tol})
}

// Filter applies f to every path and returns how many points were removed.
// On error the paths are left unchanged.
func (ps *Paths) Filter(f approx.Filter) (int, error) {
	np := make([]Path, len(ps.P))
	removed := 0
	for i, p := range ps.P {
		v, err := f.Apply(p.V)
		if err != nil {
			return 0, fmt.Errorf("path %d: %w", i, err)
		}
		removed += len(p.V) - len(v)
		np[i] = Path{Name: p.Name, V: v}
	}
	ps.P = np
	return removed, nil
}

package approx

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Deviation summarises how far the dropped points of a simplification lie
// from the simplified polyline.
type Deviation struct {
	Total   int
	Kept    int
	Removed int

	Max  float64
	Mean float64
	P95  float64
}

// Measure computes the perpendicular distance of every dropped point to the
// line through its nearest kept neighbours. kept must be ascending indices
// into points that include the first and last point, as returned by
// SimplifyIndices.
func Measure(points []Point, kept []int) (Deviation, error) {
	n := len(points)
	if err := checkKept(n, kept); err != nil {
		return Deviation{}, err
	}
	dev := Deviation{Total: n, Kept: len(kept), Removed: n - len(kept)}
	if dev.Removed == 0 {
		return dev, nil
	}

	d := make([]float64, 0, dev.Removed)
	for k := 1; k < len(kept); k++ {
		a, b := points[kept[k-1]], points[kept[k]]
		for i := kept[k-1] + 1; i < kept[k]; i++ {
			d = append(d, perpendicularDistance(points[i], a, b))
		}
	}
	sort.Float64s(d)
	dev.Max = floats.Max(d)
	dev.Mean = stat.Mean(d, nil)
	dev.P95 = stat.Quantile(0.95, stat.Empirical, d, nil)
	return dev, nil
}

func checkKept(n int, kept []int) error {
	if n == 0 {
		if len(kept) != 0 {
			return invalidf("%d kept indices for an empty sequence", len(kept))
		}
		return nil
	}
	if len(kept) == 0 || kept[0] != 0 || kept[len(kept)-1] != n-1 {
		return invalidf("kept indices must start at 0 and end at %d", n-1)
	}
	for i := 1; i < len(kept); i++ {
		if kept[i] <= kept[i-1] {
			return invalidf("kept indices not ascending at position %d", i)
		}
	}
	return nil
}

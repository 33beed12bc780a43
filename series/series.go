// Package series holds named chart series and reads and writes them as CSV.
package series

import (
	"math"

	"github.com/paulhankin/chartapprox/approx"
)

// Series is a named sequence of samples in data coordinates.
type Series struct {
	// ID is assigned by the store; it is empty for series that were never saved.
	ID     string
	Name   string
	Points []approx.Point
}

// Bounds returns the smallest and largest coordinates of the series. ok is
// false when the series has no points.
func (s *Series) Bounds() (min, max approx.Point, ok bool) {
	if len(s.Points) == 0 {
		return min, max, false
	}
	inf := math.Inf(1)
	min = approx.Point{X: inf, Y: inf}
	max = approx.Point{X: -inf, Y: -inf}
	for _, p := range s.Points {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max, true
}

// Find returns the series called name, or nil.
func Find(ss []*Series, name string) *Series {
	for _, s := range ss {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Package paths maps chart series into a viewport as 2d polylines, and
// provides the geometry a renderer needs before drawing them: bounds,
// viewport transforms, clipping, simplification and SVG import/export.
package paths

import (
	"math"

	"github.com/paulhankin/chartapprox/approx"
	"github.com/paulhankin/chartapprox/series"
)

// Point is a position in path space.
type Point = approx.Point

// A Path is a contiguous series of line segments, from the
// first point in the V slice to the last.
type Path struct {
	Name string
	V    []Point
}

// Bounds describes an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point
}

// Width is the horizontal extent of b.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height is the vertical extent of b.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Paths is a set of paths, along with a view bounds.
type Paths struct {
	Bounds Bounds
	P      []Path
}

// FromSeries builds one path per series, bounded by the data extent.
func FromSeries(ss ...*series.Series) *Paths {
	ps := &Paths{}
	for _, s := range ss {
		ps.P = append(ps.P, Path{Name: s.Name, V: append([]Point(nil), s.Points...)})
	}
	ps.TightenBounds()
	return ps
}

// TightenBounds adjusts the bounds to exactly contain the paths.
// If there are no points, the bounds are set to zero.
func (ps *Paths) TightenBounds() {
	inf := math.Inf(1)
	min := Point{X: inf, Y: inf}
	max := Point{X: -inf, Y: -inf}
	i := 0
	for _, p := range ps.P {
		for _, v := range p.V {
			i++
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
		}
	}
	if i == 0 {
		ps.Bounds = Bounds{}
		return
	}
	ps.Bounds = Bounds{Min: min, Max: max}
}

// Translate moves all the paths by the given amount.
func (ps *Paths) Translate(dx Point) {
	b := ps.Bounds
	nb := Bounds{
		Min: Point{X: b.Min.X + dx.X, Y: b.Min.Y + dx.Y},
		Max: Point{X: b.Max.X + dx.X, Y: b.Max.Y + dx.Y},
	}
	ps.Transform(nb)
}

// Transform resizes all paths so that the rectangle forming the
// current bounds is the size of the new bounds. The bounds
// are also updated to the new bounds. A zero-sized axis of the
// current bounds maps to the middle of the new bounds.
func (ps *Paths) Transform(nb Bounds) {
	ps.transform(nb, false)
}

// FlipY is like Transform, but maps the bottom of the current
// bounds to the top of the new bounds. Use it to go from data
// space (y up) to pixel space (y down).
func (ps *Paths) FlipY(nb Bounds) {
	ps.transform(nb, true)
}

func scale(v, omin, omax, nmin, nmax float64) float64 {
	if omax == omin {
		return (nmin + nmax) / 2
	}
	return (v-omin)/(omax-omin)*(nmax-nmin) + nmin
}

func (ps *Paths) transform(nb Bounds, flip bool) {
	ob := ps.Bounds
	for _, p := range ps.P {
		for i, v := range p.V {
			x := scale(v.X, ob.Min.X, ob.Max.X, nb.Min.X, nb.Max.X)
			var y float64
			if flip {
				y = scale(v.Y, ob.Min.Y, ob.Max.Y, nb.Max.Y, nb.Min.Y)
			} else {
				y = scale(v.Y, ob.Min.Y, ob.Max.Y, nb.Min.Y, nb.Max.Y)
			}
			p.V[i] = Point{X: x, Y: y}
		}
	}
	ps.Bounds = nb
}

// Len is the total number of points over all paths.
func (ps *Paths) Len() int {
	n := 0
	for _, p := range ps.P {
		n += len(p.V)
	}
	return n
}

// move adds a new (initially empty) path starting at x,
// unless the last path already ends at x.
func (ps *Paths) move(x Point) {
	if len(ps.P) == 0 {
		ps.P = append(ps.P, Path{V: []Point{x}})
		return
	}
	p := &ps.P[len(ps.P)-1]
	if len(p.V) > 0 && p.V[len(p.V)-1] == x {
		return
	}
	ps.P = append(ps.P, Path{V: []Point{x}})
}

// line extends the last path with an edge that goes to x.
func (ps *Paths) line(x Point) {
	if len(ps.P) == 0 {
		ps.P = append(ps.P, Path{})
	}
	p := &ps.P[len(ps.P)-1]
	p.V = append(p.V, x)
}

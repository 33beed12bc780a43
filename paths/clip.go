package paths

// outcode records which sides of a box a point lies beyond.
type outcode uint8

const (
	left outcode = 1 << iota
	right
	below
	above
)

func (b Bounds) outcode(v Point) outcode {
	var c outcode
	if v.X < b.Min.X {
		c |= left
	} else if v.X > b.Max.X {
		c |= right
	}
	if v.Y < b.Min.Y {
		c |= below
	} else if v.Y > b.Max.Y {
		c |= above
	}
	return c
}

// Contains reports whether v is inside b or on its edge.
func (b Bounds) Contains(v Point) bool {
	return b.outcode(v) == 0
}

// edgePoint slides v along the line towards w until it meets the edge of b
// named by c.
func (b Bounds) edgePoint(v, w Point, c outcode) Point {
	switch {
	case c&above != 0:
		return Point{X: v.X + (w.X-v.X)*(b.Max.Y-v.Y)/(w.Y-v.Y), Y: b.Max.Y}
	case c&below != 0:
		return Point{X: v.X + (w.X-v.X)*(b.Min.Y-v.Y)/(w.Y-v.Y), Y: b.Min.Y}
	case c&right != 0:
		return Point{X: b.Max.X, Y: v.Y + (w.Y-v.Y)*(b.Max.X-v.X)/(w.X-v.X)}
	default:
		return Point{X: b.Min.X, Y: v.Y + (w.Y-v.Y)*(b.Min.X-v.X)/(w.X-v.X)}
	}
}

// clipSegment trims the segment v0-v1 to b (Cohen-Sutherland). ok is false
// when no part of the segment is inside.
func (b Bounds) clipSegment(v0, v1 Point) (Point, Point, bool) {
	c0, c1 := b.outcode(v0), b.outcode(v1)
	for c0|c1 != 0 {
		if c0&c1 != 0 {
			return v0, v1, false
		}
		if c0 >= c1 {
			v0 = b.edgePoint(v0, v1, c0)
			c0 = b.outcode(v0)
		} else {
			v1 = b.edgePoint(v1, v0, c1)
			c1 = b.outcode(v1)
		}
	}
	return v0, v1, true
}

// clipPath returns the runs of p that lie inside b. A segment that only
// touches b at a single point contributes nothing.
func (b Bounds) clipPath(p Path) []Path {
	var parts []Path
	open := false
	for i := 1; i < len(p.V); i++ {
		from, to := p.V[i-1], p.V[i]
		v0, v1, ok := b.clipSegment(from, to)
		if !ok || (v0 == v1 && from != to) {
			open = false
			continue
		}
		if !open || v0 != from {
			parts = append(parts, Path{Name: p.Name, V: []Point{v0}})
		}
		last := &parts[len(parts)-1]
		last.V = append(last.V, v1)
		open = v1 == to
	}
	return parts
}

// Clip removes all line segments outside the given bounds.
// If a path crosses the bounds, it's broken into multiple paths
// that keep the original path's name.
func (ps *Paths) Clip(b Bounds) {
	var result []Path
	for _, p := range ps.P {
		result = append(result, b.clipPath(p)...)
	}
	ps.P = result
}

package approx

import "math"

// distanceFunc measures how far p deviates from the line through a and b.
type distanceFunc func(p, a, b Point) float64

func pointDistance(p, a Point) float64 {
	return math.Hypot(p.X-a.X, p.Y-a.Y)
}

// perpendicularDistance is the distance from p to the infinite line through
// a and b, or to a itself when a and b coincide. The direction is
// normalised first so large finite coordinates don't overflow.
func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	h := math.Hypot(dx, dy)
	if h == 0 {
		return pointDistance(p, a)
	}
	return math.Abs((dx/h)*(p.Y-a.Y) - (p.X-a.X)*(dy/h))
}

// angleDeviation is the angle in degrees, in [0, 180], between the
// directions a->b and a->p.
func angleDeviation(p, a, b Point) float64 {
	d := math.Abs(math.Atan2(b.Y-a.Y, b.X-a.X)-math.Atan2(p.Y-a.Y, p.X-a.X)) * 180 / math.Pi
	if d > 180 {
		d = 360 - d
	}
	return d
}

func (m Metric) distance() distanceFunc {
	switch m {
	case Angle:
		return angleDeviation
	default:
		return perpendicularDistance
	}
}

// farthest returns the interior index of [start, end] that is farthest from
// the line through its ends, and that distance. The first index wins ties.
// If no interior point has a positive distance, index is -1.
func farthest(points []Point, start, end int, dist distanceFunc) (index int, dmax float64) {
	index = -1
	a, b := points[start], points[end]
	for i := start + 1; i < end; i++ {
		if d := dist(points[i], a, b); d > dmax {
			index = i
			dmax = d
		}
	}
	return index, dmax
}

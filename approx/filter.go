package approx

import "math"

// Filter is the approximation configured for one chart series.
//
// The zero Filter passes points through. Filter{Mode: RamerDouglasPeucker,
// Tolerance: t} behaves exactly like Simplify with tolerance t.
type Filter struct {
	Mode      Mode    `yaml:"mode" json:"mode"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	// Metric is Perpendicular (coordinate units) or Angle (degrees).
	Metric Metric `yaml:"metric,omitempty" json:"metric,omitempty"`
	// XRatio and YRatio scale the axes before the metric is evaluated,
	// so a tolerance can be expressed in screen space. Zero means 1.
	XRatio float64 `yaml:"x_ratio,omitempty" json:"x_ratio,omitempty"`
	YRatio float64 `yaml:"y_ratio,omitempty" json:"y_ratio,omitempty"`
}

// Validate reports whether f can be applied.
func (f Filter) Validate() error {
	if _, ok := modeNames[f.Mode]; !ok {
		return invalidf("unknown approximation mode %d", int(f.Mode))
	}
	if _, ok := metricNames[f.Metric]; !ok {
		return invalidf("unknown distance metric %d", int(f.Metric))
	}
	if f.Mode == None {
		return nil
	}
	if err := checkTolerance(f.Tolerance); err != nil {
		return err
	}
	if f.XRatio < 0 || math.IsNaN(f.XRatio) {
		return invalidf("x ratio %g is negative", f.XRatio)
	}
	if f.YRatio < 0 || math.IsNaN(f.YRatio) {
		return invalidf("y ratio %g is negative", f.YRatio)
	}
	return nil
}

// Apply returns the points kept by f.
func (f Filter) Apply(points []Point) ([]Point, error) {
	if f.Mode == None {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return points, nil
	}
	idx, err := f.ApplyIndices(points)
	if err != nil {
		return nil, err
	}
	return gather(points, idx), nil
}

// ApplyIndices returns the ascending indices of the points kept by f.
func (f Filter) ApplyIndices(points []Point) ([]int, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Mode == None {
		return allIndices(len(points)), nil
	}
	return douglasPeucker(f.scaled(points), f.Tolerance, f.Metric.distance()), nil
}

func ratio(r float64) float64 {
	if r == 0 {
		return 1
	}
	return r
}

// scaled returns points with the axis ratios applied. points itself is
// returned when both ratios are 1.
func (f Filter) scaled(points []Point) []Point {
	xr, yr := ratio(f.XRatio), ratio(f.YRatio)
	if xr == 1 && yr == 1 {
		return points
	}
	r := make([]Point, len(points))
	for i, p := range points {
		r[i] = Point{X: p.X * xr, Y: p.Y * yr}
	}
	return r
}

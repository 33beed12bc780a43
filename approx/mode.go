package approx

import (
	"fmt"
	"strings"
)

// Mode selects how a series is approximated.
type Mode int

const (
	// None passes points through untouched.
	None Mode = iota
	// RamerDouglasPeucker removes points that lie within the tolerance of
	// the simplified line.
	RamerDouglasPeucker
)

var modeNames = map[Mode]string{
	None:                "none",
	RamerDouglasPeucker: "rdp",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "none", "rdp" or "ramer-douglas-peucker" (any case).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "rdp", "ramer-douglas-peucker", "ramerdouglaspeucker", "douglas-peucker":
		return RamerDouglasPeucker, nil
	}
	return None, invalidf("unknown approximation mode %q", s)
}

// Set implements pflag.Value.
func (m *Mode) Set(s string) error {
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Type implements pflag.Value.
func (m *Mode) Type() string {
	return "mode"
}

func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, invalidf("unknown approximation mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	return m.Set(string(b))
}

// Metric selects how far an interior point is from the line between two
// retained points.
type Metric int

const (
	// Perpendicular is the distance from the point to the line through the
	// two retained points, in coordinate units.
	Perpendicular Metric = iota
	// Angle is the difference in degrees between the direction of the line
	// and the direction from the line's first point to the point.
	Angle
)

var metricNames = map[Metric]string{
	Perpendicular: "perpendicular",
	Angle:         "angle",
}

func (m Metric) String() string {
	if s, ok := metricNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric parses "perpendicular" or "angle" (any case).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perpendicular", "distance", "":
		return Perpendicular, nil
	case "angle":
		return Angle, nil
	}
	return Perpendicular, invalidf("unknown distance metric %q", s)
}

// Set implements pflag.Value.
func (m *Metric) Set(s string) error {
	v, err := ParseMetric(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Type implements pflag.Value.
func (m *Metric) Type() string {
	return "metric"
}

func (m Metric) MarshalText() ([]byte, error) {
	if _, ok := metricNames[m]; !ok {
		return nil, invalidf("unknown distance metric %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Metric) UnmarshalText(b []byte) error {
	return m.Set(string(b))
}

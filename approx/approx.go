// Package approx reduces ordered 2d point sequences, such as the samples of a
// chart series, to a smaller subsequence that keeps the visual shape of the
// curve within an error tolerance.
//
// The reduction is the Ramer-Douglas-Peucker algorithm. Every function in
// this package is a pure computation: inputs are never modified, and calls
// on independent (or read-only shared) inputs may run concurrently.
package approx

import (
	"errors"
	"fmt"
)

// Point is a sample in data coordinates.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// ErrInvalidArgument is wrapped by every error caused by a bad caller
// argument, such as a negative tolerance.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

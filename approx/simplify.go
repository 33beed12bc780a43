package approx

import "math"

func checkTolerance(tolerance float64) error {
	if tolerance < 0 || math.IsNaN(tolerance) {
		return invalidf("tolerance %g is negative", tolerance)
	}
	return nil
}

// Simplify reduces points according to mode.
//
// With mode None, points is returned as is, whatever the tolerance. With
// RamerDouglasPeucker, the result is a new slice holding a subsequence of
// points: the first and last points are always kept, and every dropped point
// is within tolerance of the line through its nearest kept neighbours.
// Fewer than three points are returned unchanged (as a copy).
// A negative tolerance is rejected with an error wrapping ErrInvalidArgument.
func Simplify(points []Point, tolerance float64, mode Mode) ([]Point, error) {
	switch mode {
	case None:
		return points, nil
	case RamerDouglasPeucker:
		idx, err := SimplifyIndices(points, tolerance, mode)
		if err != nil {
			return nil, err
		}
		return gather(points, idx), nil
	}
	return nil, invalidf("unknown approximation mode %d", int(mode))
}

// SimplifyIndices is like Simplify, but returns the ascending indices of the
// points that are kept.
func SimplifyIndices(points []Point, tolerance float64, mode Mode) ([]int, error) {
	switch mode {
	case None:
		return allIndices(len(points)), nil
	case RamerDouglasPeucker:
		if err := checkTolerance(tolerance); err != nil {
			return nil, err
		}
		return douglasPeucker(points, tolerance, perpendicularDistance), nil
	}
	return nil, invalidf("unknown approximation mode %d", int(mode))
}

// douglasPeucker runs the reduction over an explicit stack of [start, end]
// index pairs, so pathological inputs can't exhaust the goroutine stack.
func douglasPeucker(points []Point, tolerance float64, dist distanceFunc) []int {
	n := len(points)
	if n < 3 {
		return allIndices(n)
	}
	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true
	found := 2

	stack := []int{0, n - 1}
	for len(stack) > 0 {
		l := len(stack)
		start, end := stack[l-2], stack[l-1]
		stack = stack[:l-2]
		if end-start < 2 {
			continue
		}
		pivot, dmax := farthest(points, start, end, dist)
		if pivot < 0 || !(dmax > tolerance) {
			continue
		}
		keep[pivot] = true
		found++
		// Push the right half first so the left half is processed first.
		stack = append(stack, pivot, end, start, pivot)
	}
	return maskIndices(keep, found)
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func maskIndices(keep []bool, found int) []int {
	idx := make([]int, 0, found)
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return idx
}

func gather(points []Point, idx []int) []Point {
	r := make([]Point, len(idx))
	for i, j := range idx {
		r[i] = points[j]
	}
	return r
}

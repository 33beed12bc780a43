package approx

import "container/heap"

// segment is a run of points between two kept indices, with the interior
// point farthest from the line through its ends.
type segment struct {
	start, end int
	pivot      int
	dist       float64
}

type segmentQueue []segment

func (q segmentQueue) Len() int { return len(q) }

func (q segmentQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist > q[j].dist
	}
	return q[i].start < q[j].start
}

func (q segmentQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *segmentQueue) Push(x interface{}) { *q = append(*q, x.(segment)) }

func (q *segmentQueue) Pop() interface{} {
	old := *q
	s := old[len(old)-1]
	*q = old[:len(old)-1]
	return s
}

// ReduceN reduces points to at most count points. It repeatedly keeps the
// point that deviates most from the current simplified line, so the result
// is the best count-point Douglas-Peucker approximation. The first and last
// points are always kept. Fewer than count points are returned when the
// remaining points are all exactly on the simplified line.
//
// count must be at least 2. If count >= len(points), a copy of points is
// returned.
func ReduceN(points []Point, count int) ([]Point, error) {
	idx, err := ReduceNIndices(points, count)
	if err != nil {
		return nil, err
	}
	return gather(points, idx), nil
}

// ReduceNIndices is like ReduceN, but returns the ascending indices of the
// kept points.
func ReduceNIndices(points []Point, count int) ([]int, error) {
	if count < 2 {
		return nil, invalidf("point count %d is less than 2", count)
	}
	n := len(points)
	if count >= n {
		return allIndices(n), nil
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true
	found := 2

	q := &segmentQueue{}
	push := func(start, end int) {
		if pivot, d := farthest(points, start, end, perpendicularDistance); pivot >= 0 {
			heap.Push(q, segment{start: start, end: end, pivot: pivot, dist: d})
		}
	}
	push(0, n-1)
	for q.Len() > 0 && found < count {
		s := heap.Pop(q).(segment)
		keep[s.pivot] = true
		found++
		push(s.start, s.pivot)
		push(s.pivot, s.end)
	}
	return maskIndices(keep, found), nil
}

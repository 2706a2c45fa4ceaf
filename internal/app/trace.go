package app

import "echogrid/internal/geo"

// PointRing is a circular buffer of estimated positions, kept for the
// on-grid trail display.
type PointRing struct {
	buf   []geo.Point
	pos   int
	count int
}

// NewPointRing creates a ring with the given capacity.
func NewPointRing(capacity int) *PointRing {
	return &PointRing{
		buf: make([]geo.Point, capacity),
	}
}

// Push adds a point to the ring.
func (r *PointRing) Push(p geo.Point) {
	r.buf[r.pos] = p
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored points in chronological order.
func (r *PointRing) Values() []geo.Point {
	if r.count == 0 {
		return nil
	}
	result := make([]geo.Point, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		start := r.pos
		n := copy(result, r.buf[start:])
		copy(result[n:], r.buf[:start])
	}
	return result
}

// Len returns the number of stored points.
func (r *PointRing) Len() int {
	return r.count
}

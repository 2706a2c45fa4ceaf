// Package trilat estimates a 2D position from three range circles using the
// minimum-area-triangle method: intersect every circle pair, enumerate one
// intersection point per pair, and take the centroid of the smallest
// geometrically consistent triangle. Large triangles mean the sensors
// disagree, so the smallest one is the tightest localization.
package trilat

import (
	"errors"
	"fmt"
	"math"
	"time"

	"echogrid/internal/geo"
)

var (
	// ErrNotEnoughSensors is returned when fewer than three usable
	// range circles are available.
	ErrNotEnoughSensors = errors.New("trilateration: fewer than 3 sensors")

	// ErrStaleInput is returned when a required sensor's sample is older
	// than the freshness timeout.
	ErrStaleInput = errors.New("trilateration: stale sensor sample")

	// ErrInsufficientGeometry is returned when no pair of circles
	// intersects, or fewer than three valid candidate triangles exist.
	ErrInsufficientGeometry = errors.New("trilateration: no valid intersection triangle")
)

// Input is one sensor's contribution to a solve: its detection circle and
// when the underlying range sample was taken.
type Input struct {
	ID        string
	Circle    geo.Circle
	SampledAt time.Time
}

// Estimate is the solver output. It is a value type, replaced wholesale on
// every solve and never mutated in place.
type Estimate struct {
	Position     geo.Point
	Triangle     [3]geo.Point
	TriangleArea float64
	// Quality is 1 - min(1, area/referenceArea): near 1 when the sensors
	// agree tightly, falling toward 0 as the triangle grows.
	Quality   float64
	Timestamp time.Time
	// Fallback marks an estimate produced by the least-squares path
	// rather than the triangle method.
	Fallback bool
}

// Solver holds the solve tolerances. The zero value is not usable; construct
// with New.
type Solver struct {
	epsilon       float64
	referenceArea float64
	freshness     time.Duration
}

// New returns a Solver with the given vertex tolerance, quality
// normalization area, and sample freshness timeout.
func New(epsilon, referenceArea float64, freshness time.Duration) *Solver {
	return &Solver{
		epsilon:       epsilon,
		referenceArea: referenceArea,
		freshness:     freshness,
	}
}

// Solve runs the minimum-area-triangle method on the first three inputs.
// The inputs must be fresh relative to now; a stale sample is reported as
// ErrStaleInput rather than silently reused.
func (s *Solver) Solve(inputs []Input, now time.Time) (Estimate, error) {
	if len(inputs) < 3 {
		return Estimate{}, ErrNotEnoughSensors
	}
	use := inputs[:3]
	if err := s.checkFreshness(use, now); err != nil {
		return Estimate{}, err
	}

	c := [3]geo.Circle{use[0].Circle, use[1].Circle, use[2].Circle}

	// Intersection points per unordered pair. pairPoints[k] holds the
	// points from pair (pairA[k], pairB[k]).
	pairA := [3]int{0, 0, 1}
	pairB := [3]int{1, 2, 2}
	var pairPoints [3][]geo.Point
	for k := 0; k < 3; k++ {
		pairPoints[k] = geo.Intersect(c[pairA[k]], c[pairB[k]])
		if len(pairPoints[k]) == 0 {
			return Estimate{}, fmt.Errorf("%w: circles %s and %s do not intersect",
				ErrInsufficientGeometry, use[pairA[k]].ID, use[pairB[k]].ID)
		}
	}

	// One point per pair gives up to 2*2*2 = 8 candidate triangles.
	best := Estimate{TriangleArea: math.Inf(1)}
	valid := 0
	for _, p1 := range pairPoints[0] {
		if !s.onCircles(p1, c[0], c[1]) {
			continue
		}
		for _, p2 := range pairPoints[1] {
			if !s.onCircles(p2, c[0], c[2]) {
				continue
			}
			for _, p3 := range pairPoints[2] {
				if !s.onCircles(p3, c[1], c[2]) {
					continue
				}
				valid++
				area := geo.TriangleArea(p1, p2, p3)
				if area < best.TriangleArea {
					best = Estimate{
						Position:     geo.Centroid(p1, p2, p3),
						Triangle:     [3]geo.Point{p1, p2, p3},
						TriangleArea: area,
						Timestamp:    now,
					}
				}
			}
		}
	}
	if valid < 3 {
		return Estimate{}, fmt.Errorf("%w: %d valid candidate triangles", ErrInsufficientGeometry, valid)
	}

	best.Quality = 1 - math.Min(1, best.TriangleArea/s.referenceArea)
	return best, nil
}

// onCircles verifies a candidate vertex lies within epsilon of both circles
// it was derived from. Rejects numerically degenerate combinations.
func (s *Solver) onCircles(p geo.Point, a, b geo.Circle) bool {
	return geo.NearlyEqual(geo.Dist(p, a.Center), a.Radius, s.epsilon) &&
		geo.NearlyEqual(geo.Dist(p, b.Center), b.Radius, s.epsilon)
}

func (s *Solver) checkFreshness(inputs []Input, now time.Time) error {
	for _, in := range inputs {
		if now.Sub(in.SampledAt) > s.freshness {
			return fmt.Errorf("%w: sensor %s sample is %s old",
				ErrStaleInput, in.ID, now.Sub(in.SampledAt).Round(time.Millisecond))
		}
	}
	return nil
}

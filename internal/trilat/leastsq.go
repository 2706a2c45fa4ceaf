package trilat

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"echogrid/internal/geo"
)

// SolveLeastSquares is the approximate fallback for geometries where the
// triangle method fails. It linearizes the range equations against the last
// sensor and solves the over-determined system in the least-squares sense,
// using every fresh input rather than just three.
func (s *Solver) SolveLeastSquares(inputs []Input, now time.Time) (Estimate, error) {
	if len(inputs) < 3 {
		return Estimate{}, ErrNotEnoughSensors
	}
	if err := s.checkFreshness(inputs, now); err != nil {
		return Estimate{}, err
	}

	n := len(inputs)
	ref := inputs[n-1].Circle
	a := mat.NewDense(n-1, 2, nil)
	b := mat.NewVecDense(n-1, nil)
	for i := 0; i < n-1; i++ {
		ci := inputs[i].Circle
		a.Set(i, 0, 2*(ref.Center.X-ci.Center.X))
		a.Set(i, 1, 2*(ref.Center.Y-ci.Center.Y))
		b.SetVec(i, ci.Radius*ci.Radius-ref.Radius*ref.Radius+
			ref.Center.X*ref.Center.X-ci.Center.X*ci.Center.X+
			ref.Center.Y*ref.Center.Y-ci.Center.Y*ci.Center.Y)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Estimate{}, fmt.Errorf("%w: least squares solve: %v", ErrInsufficientGeometry, err)
	}
	pos := geo.Point{X: x.AtVec(0), Y: x.AtVec(1)}

	// Residual RMS against the range circles stands in for triangle area
	// as the confidence signal: quality 1/(1+rmse) stays in (0, 1].
	var sum float64
	for _, in := range inputs {
		r := geo.Dist(pos, in.Circle.Center) - in.Circle.Radius
		sum += r * r
	}
	rmse := math.Sqrt(sum / float64(n))

	return Estimate{
		Position:  pos,
		Quality:   1 / (1 + rmse),
		Timestamp: now,
		Fallback:  true,
	}, nil
}

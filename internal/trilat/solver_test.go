package trilat

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echogrid/internal/geo"
)

func newSolver() *Solver {
	return New(1e-5, 2000, 3*time.Second)
}

// inputsFor builds three inputs whose radii are the exact distances from the
// sensor positions to the true position.
func inputsFor(truth geo.Point, sensors []geo.Point, at time.Time) []Input {
	inputs := make([]Input, len(sensors))
	for i, p := range sensors {
		inputs[i] = Input{
			ID:        string(rune('A' + i)),
			Circle:    geo.Circle{Center: p, Radius: geo.Dist(p, truth)},
			SampledAt: at,
		}
	}
	return inputs
}

func TestSolve(t *testing.T) {
	now := time.Now()
	sensors := []geo.Point{
		{X: 100, Y: 120},
		{X: 61, Y: 52.5},
		{X: 139, Y: 52.5},
	}

	t.Run("exact radii recover the true position", func(t *testing.T) {
		truth := geo.Point{X: 90, Y: 80}
		est, err := newSolver().Solve(inputsFor(truth, sensors, now), now)
		require.NoError(t, err)

		assert.InDelta(t, truth.X, est.Position.X, 1e-6)
		assert.InDelta(t, truth.Y, est.Position.Y, 1e-6)
		assert.InDelta(t, 1.0, est.Quality, 1e-6)
		assert.False(t, est.Fallback)
		assert.Equal(t, now, est.Timestamp)
	})

	t.Run("triangle vertices lie on their source circles", func(t *testing.T) {
		truth := geo.Point{X: 120, Y: 70}
		inputs := inputsFor(truth, sensors, now)
		est, err := newSolver().Solve(inputs, now)
		require.NoError(t, err)

		// Vertex k comes from circle pair (pairA[k], pairB[k]).
		pairs := [3][2]int{{0, 1}, {0, 2}, {1, 2}}
		for k, pair := range pairs {
			for _, ci := range pair {
				c := inputs[ci].Circle
				assert.InDelta(t, c.Radius, geo.Dist(est.Triangle[k], c.Center), 1e-5)
			}
		}
	})

	t.Run("noisy radii lower the quality score", func(t *testing.T) {
		truth := geo.Point{X: 90, Y: 80}
		inputs := inputsFor(truth, sensors, now)
		for i := range inputs {
			inputs[i].Circle.Radius += float64(i+1) * 4
		}
		est, err := newSolver().Solve(inputs, now)
		require.NoError(t, err)

		assert.Greater(t, est.TriangleArea, 0.0)
		assert.Less(t, est.Quality, 1.0)
		// Still in the neighbourhood of the truth.
		assert.InDelta(t, truth.X, est.Position.X, 15)
		assert.InDelta(t, truth.Y, est.Position.Y, 15)
	})

	t.Run("fewer than three sensors", func(t *testing.T) {
		inputs := inputsFor(geo.Point{X: 90, Y: 80}, sensors[:2], now)
		_, err := newSolver().Solve(inputs, now)
		assert.ErrorIs(t, err, ErrNotEnoughSensors)
	})

	t.Run("non-intersecting circles", func(t *testing.T) {
		inputs := []Input{
			{ID: "A", Circle: geo.Circle{Center: geo.Point{X: 0, Y: 0}, Radius: 5}, SampledAt: now},
			{ID: "B", Circle: geo.Circle{Center: geo.Point{X: 100, Y: 0}, Radius: 5}, SampledAt: now},
			{ID: "C", Circle: geo.Circle{Center: geo.Point{X: 50, Y: 80}, Radius: 5}, SampledAt: now},
		}
		_, err := newSolver().Solve(inputs, now)
		assert.ErrorIs(t, err, ErrInsufficientGeometry)
	})

	t.Run("stale sample rejected", func(t *testing.T) {
		inputs := inputsFor(geo.Point{X: 90, Y: 80}, sensors, now.Add(-10*time.Second))
		_, err := newSolver().Solve(inputs, now)
		assert.ErrorIs(t, err, ErrStaleInput)
		assert.Contains(t, err.Error(), "A")
	})

	t.Run("quality floors at zero for huge triangles", func(t *testing.T) {
		s := New(1e-5, 1e-9, 3*time.Second) // tiny reference area
		truth := geo.Point{X: 90, Y: 80}
		inputs := inputsFor(truth, sensors, now)
		inputs[0].Circle.Radius += 6
		est, err := s.Solve(inputs, now)
		require.NoError(t, err)
		assert.Equal(t, 0.0, est.Quality)
	})
}

func TestSolveLeastSquares(t *testing.T) {
	now := time.Now()
	sensors := []geo.Point{
		{X: 100, Y: 120},
		{X: 61, Y: 52.5},
		{X: 139, Y: 52.5},
		{X: 100, Y: 20},
	}

	t.Run("exact radii recover the true position", func(t *testing.T) {
		truth := geo.Point{X: 105, Y: 70}
		est, err := newSolver().SolveLeastSquares(inputsFor(truth, sensors, now), now)
		require.NoError(t, err)

		assert.InDelta(t, truth.X, est.Position.X, 1e-6)
		assert.InDelta(t, truth.Y, est.Position.Y, 1e-6)
		assert.InDelta(t, 1.0, est.Quality, 1e-6)
		assert.True(t, est.Fallback)
	})

	t.Run("works where the triangle method fails", func(t *testing.T) {
		truth := geo.Point{X: 90, Y: 80}
		inputs := inputsFor(truth, sensors[:3], now)
		// Shrink one radius until its circles no longer intersect.
		inputs[0].Circle.Radius = 1

		_, err := newSolver().Solve(inputs, now)
		require.ErrorIs(t, err, ErrInsufficientGeometry)

		est, err := newSolver().SolveLeastSquares(inputs, now)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(est.Position.X))
		assert.Less(t, est.Quality, 1.0)
	})

	t.Run("noise degrades quality but not position much", func(t *testing.T) {
		truth := geo.Point{X: 80, Y: 90}
		inputs := inputsFor(truth, sensors, now)
		offsets := []float64{3, -2, 4, -3}
		for i := range inputs {
			inputs[i].Circle.Radius += offsets[i]
		}
		est, err := newSolver().SolveLeastSquares(inputs, now)
		require.NoError(t, err)
		assert.InDelta(t, truth.X, est.Position.X, 10)
		assert.InDelta(t, truth.Y, est.Position.Y, 10)
		assert.Less(t, est.Quality, 1.0)
		assert.Greater(t, est.Quality, 0.0)
	})

	t.Run("fewer than three sensors", func(t *testing.T) {
		inputs := inputsFor(geo.Point{X: 90, Y: 80}, sensors[:2], now)
		_, err := newSolver().SolveLeastSquares(inputs, now)
		assert.ErrorIs(t, err, ErrNotEnoughSensors)
	})

	t.Run("stale sample rejected", func(t *testing.T) {
		inputs := inputsFor(geo.Point{X: 90, Y: 80}, sensors, now)
		inputs[2].SampledAt = now.Add(-time.Minute)
		_, err := newSolver().SolveLeastSquares(inputs, now)
		assert.ErrorIs(t, err, ErrStaleInput)
	})
}

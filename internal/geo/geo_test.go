package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestIntersect(t *testing.T) {
	t.Run("two intersection points lie on both circles", func(t *testing.T) {
		c1 := Circle{Center: Point{X: 0, Y: 0}, Radius: 5}
		c2 := Circle{Center: Point{X: 6, Y: 0}, Radius: 5}

		pts := Intersect(c1, c2)
		require.Len(t, pts, 2)
		for _, p := range pts {
			assert.InDelta(t, c1.Radius, Dist(p, c1.Center), eps)
			assert.InDelta(t, c2.Radius, Dist(p, c2.Center), eps)
		}
		// The two solutions are mirror images across the center axis.
		assert.InDelta(t, pts[0].X, pts[1].X, eps)
		assert.InDelta(t, pts[0].Y, -pts[1].Y, eps)
	})

	t.Run("separate circles", func(t *testing.T) {
		pts := Intersect(
			Circle{Center: Point{X: 0, Y: 0}, Radius: 1},
			Circle{Center: Point{X: 10, Y: 0}, Radius: 1},
		)
		assert.Empty(t, pts)
	})

	t.Run("contained circle", func(t *testing.T) {
		pts := Intersect(
			Circle{Center: Point{X: 0, Y: 0}, Radius: 10},
			Circle{Center: Point{X: 1, Y: 0}, Radius: 1},
		)
		assert.Empty(t, pts)
	})

	t.Run("concentric circles", func(t *testing.T) {
		pts := Intersect(
			Circle{Center: Point{X: 3, Y: 4}, Radius: 2},
			Circle{Center: Point{X: 3, Y: 4}, Radius: 5},
		)
		assert.Empty(t, pts)
	})

	t.Run("externally tangent circles yield coincident points", func(t *testing.T) {
		pts := Intersect(
			Circle{Center: Point{X: 0, Y: 0}, Radius: 2},
			Circle{Center: Point{X: 5, Y: 0}, Radius: 3},
		)
		require.Len(t, pts, 2)
		assert.InDelta(t, 2.0, pts[0].X, eps)
		assert.InDelta(t, 0.0, pts[0].Y, eps)
		assert.InDelta(t, pts[0].X, pts[1].X, eps)
		assert.InDelta(t, pts[0].Y, pts[1].Y, eps)
	})

	t.Run("offset centers", func(t *testing.T) {
		c1 := Circle{Center: Point{X: 20, Y: 30}, Radius: 13}
		c2 := Circle{Center: Point{X: 35, Y: 42}, Radius: 11}

		pts := Intersect(c1, c2)
		require.Len(t, pts, 2)
		for _, p := range pts {
			assert.InDelta(t, c1.Radius, Dist(p, c1.Center), eps)
			assert.InDelta(t, c2.Radius, Dist(p, c2.Center), eps)
		}
	})
}

func TestTriangleArea(t *testing.T) {
	t.Run("right triangle", func(t *testing.T) {
		a := TriangleArea(Point{0, 0}, Point{4, 0}, Point{0, 3})
		assert.InDelta(t, 6.0, a, eps)
	})

	t.Run("vertex order does not matter", func(t *testing.T) {
		p1, p2, p3 := Point{1, 2}, Point{7, 3}, Point{4, 9}
		a1 := TriangleArea(p1, p2, p3)
		a2 := TriangleArea(p3, p1, p2)
		a3 := TriangleArea(p2, p3, p1)
		assert.InDelta(t, a1, a2, eps)
		assert.InDelta(t, a1, a3, eps)
	})

	t.Run("degenerate collinear points", func(t *testing.T) {
		a := TriangleArea(Point{0, 0}, Point{1, 1}, Point{2, 2})
		assert.InDelta(t, 0.0, a, eps)
	})
}

func TestCentroid(t *testing.T) {
	c := Centroid(Point{0, 0}, Point{6, 0}, Point{0, 6})
	assert.InDelta(t, 2.0, c.X, eps)
	assert.InDelta(t, 2.0, c.Y, eps)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, NearlyEqual(1.0, 1.0+1e-12, 1e-9))
	assert.False(t, NearlyEqual(1.0, 1.1, 1e-9))
	assert.True(t, NearlyEqual(math.Pi, math.Pi, 0))
}

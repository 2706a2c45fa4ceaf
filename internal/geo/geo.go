package geo

import "math"

// Point is a position on the grid in centimeters.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Circle is a detection circle: a sensor position and its current radius.
type Circle struct {
	Center Point
	Radius float64
}

// Intersect computes the intersection points of two circles using the
// standard two-circle construction. Returns zero points when the circles
// are separate, contained, or concentric; tangent circles yield two
// coincident points.
func Intersect(c1, c2 Circle) []Point {
	d := Dist(c1.Center, c2.Center)
	if d == 0 {
		return nil // concentric
	}
	if d > c1.Radius+c2.Radius {
		return nil // separate
	}
	if d < math.Abs(c1.Radius-c2.Radius) {
		return nil // one inside the other
	}

	// a = distance from c1 along the center axis to the chord,
	// h = half chord length.
	a := (c1.Radius*c1.Radius - c2.Radius*c2.Radius + d*d) / (2 * d)
	h := math.Sqrt(math.Max(0, c1.Radius*c1.Radius-a*a))

	ux := (c2.Center.X - c1.Center.X) / d
	uy := (c2.Center.Y - c1.Center.Y) / d
	mx := c1.Center.X + a*ux
	my := c1.Center.Y + a*uy

	return []Point{
		{X: mx + h*uy, Y: my - h*ux},
		{X: mx - h*uy, Y: my + h*ux},
	}
}

// TriangleArea computes the area of a triangle via the shoelace formula.
func TriangleArea(p1, p2, p3 Point) float64 {
	return 0.5 * math.Abs(p1.X*(p2.Y-p3.Y)+p2.X*(p3.Y-p1.Y)+p3.X*(p1.Y-p2.Y))
}

// Centroid returns the centroid of a triangle.
func Centroid(p1, p2, p3 Point) Point {
	return Point{
		X: (p1.X + p2.X + p3.X) / 3,
		Y: (p1.Y + p2.Y + p3.Y) / 3,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyEqual reports whether a and b differ by no more than eps.
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

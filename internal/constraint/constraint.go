// Package constraint validates sensor layout legality: sensors must never
// sit inside each other's detection circles, and positions must stay inside
// the grid boundary margin.
package constraint

import (
	"fmt"
	"math"

	"echogrid/internal/geo"
)

// Sensor is the layout view of a sensor node: where it sits and how far it
// currently detects.
type Sensor struct {
	ID       string
	Position geo.Point
	Radius   float64
}

// Violation reports one sensor pair whose separation is too small.
type Violation struct {
	SensorID string  // the sensor sitting too close
	OtherID  string  // the sensor whose detection circle is encroached
	Distance float64 // center-to-center distance
	Radius   float64 // the encroached detection radius
}

func (v Violation) Error() string {
	return fmt.Sprintf("sensor %s is %.1f cm from %s, inside its %.1f cm detection radius",
		v.SensorID, v.Distance, v.OtherID, v.Radius)
}

// Validator checks layouts against the configured margins.
type Validator struct {
	// SafetyMargin shrinks detection radii during the separation check;
	// the invariant is dist(i, j) > radius_j - SafetyMargin.
	SafetyMargin float64
	// MinRadius is the floor for OptimalRadius.
	MinRadius float64
}

// ValidateLayout checks every unordered sensor pair and returns all
// violations found, not just the first, so callers can report exhaustively.
// A nil result means the layout is legal.
func (v *Validator) ValidateLayout(sensors []Sensor) []Violation {
	var violations []Violation
	for i := 0; i < len(sensors); i++ {
		for j := i + 1; j < len(sensors); j++ {
			d := geo.Dist(sensors[i].Position, sensors[j].Position)
			if d <= sensors[j].Radius-v.SafetyMargin {
				violations = append(violations, Violation{
					SensorID: sensors[i].ID,
					OtherID:  sensors[j].ID,
					Distance: d,
					Radius:   sensors[j].Radius,
				})
			}
			if d <= sensors[i].Radius-v.SafetyMargin {
				violations = append(violations, Violation{
					SensorID: sensors[j].ID,
					OtherID:  sensors[i].ID,
					Distance: d,
					Radius:   sensors[i].Radius,
				})
			}
		}
	}
	return violations
}

// OptimalRadius computes the largest detection radius a sensor can carry
// without reaching its nearest neighbour:
// max(MinRadius, minInterSensorDistance - SafetyMargin).
// With no other sensors present it returns defaultRadius.
func (v *Validator) OptimalRadius(sensor Sensor, all []Sensor, defaultRadius float64) float64 {
	minDist := math.Inf(1)
	for _, other := range all {
		if other.ID == sensor.ID {
			continue
		}
		if d := geo.Dist(sensor.Position, other.Position); d < minDist {
			minDist = d
		}
	}
	if math.IsInf(minDist, 1) {
		return defaultRadius
	}
	return math.Max(v.MinRadius, minDist-v.SafetyMargin)
}

// ValidateBoundary reports whether p lies within the grid minus margin on
// both axes.
func ValidateBoundary(p geo.Point, gridWidth, gridHeight, margin float64) bool {
	return p.X >= margin && p.X <= gridWidth-margin &&
		p.Y >= margin && p.Y <= gridHeight-margin
}

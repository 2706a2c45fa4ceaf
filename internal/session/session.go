// Package session owns the live state of one tracking session: the sensor
// layout, the latest range sample per sensor, the distance-mode selection,
// and the solve pipeline that turns samples into position estimates.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"echogrid/internal/config"
	"echogrid/internal/constraint"
	"echogrid/internal/geo"
	"echogrid/internal/monitoring"
	"echogrid/internal/trilat"
)

// ErrLayoutInvalid is returned by Estimate when the current layout fails
// validation; the solver is never run against an invalid layout.
var ErrLayoutInvalid = errors.New("session: sensor layout violates constraints")

// SensorNode is a fixed sensor: position immutable once placed, detection
// radius mutable through distance-mode cycling.
type SensorNode struct {
	ID              string
	Position        geo.Point
	BaseRadius      float64
	DetectionRadius float64
}

// RangeSample is one distance reading from a sensor. Only the latest sample
// per sensor is retained.
type RangeSample struct {
	SensorID  string
	Distance  float64
	Timestamp time.Time
}

// Position is the estimate published each solve tick. It is a value type,
// replaced wholesale and never mutated in place.
type Position struct {
	Point        geo.Point
	TriangleArea float64
	Quality      float64
	Timestamp    time.Time
	OutOfBounds  bool
	Stale        bool
	Fallback     bool
}

// Session is safe for concurrent use; ingestion and solving may run from
// different goroutines.
type Session struct {
	mu        sync.RWMutex
	cfg       config.Config
	validator *constraint.Validator
	solver    *trilat.Solver

	sensors []*SensorNode
	byID    map[string]*SensorNode
	samples map[string]RangeSample

	mode      Mode
	overrides map[string]float64 // manual radii

	truePos    *geo.Point // simulation ground truth, nil outside demo
	last       *Position
	violations []constraint.Violation
}

// New builds a session from the configured sensor layout.
func New(cfg config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg: cfg,
		validator: &constraint.Validator{
			SafetyMargin: cfg.SafetyMargin,
			MinRadius:    cfg.MinRadius,
		},
		solver:    trilat.New(cfg.Solver.Epsilon, cfg.Solver.ReferenceArea, cfg.Solver.Freshness),
		byID:      make(map[string]*SensorNode),
		samples:   make(map[string]RangeSample),
		overrides: make(map[string]float64),
	}
	for _, sc := range cfg.Sensors {
		node := &SensorNode{
			ID:              sc.ID,
			Position:        geo.Point{X: sc.X, Y: sc.Y},
			BaseRadius:      sc.BaseRadius,
			DetectionRadius: sc.BaseRadius,
		}
		s.sensors = append(s.sensors, node)
		s.byID[sc.ID] = node
	}
	return s, nil
}

// Ingest stores a range sample, smoothing repeated readings with an EMA so
// one noisy reading does not jerk the radius around. Last sample wins.
func (s *Session) Ingest(sample RangeSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sample.SensorID]; !ok {
		return fmt.Errorf("session: unknown sensor %q", sample.SensorID)
	}
	if prev, ok := s.samples[sample.SensorID]; ok {
		sample.Distance = prev.Distance*(1-config.SmoothingAlpha) + sample.Distance*config.SmoothingAlpha
	}
	s.samples[sample.SensorID] = sample
	return nil
}

// SetTruePosition supplies the simulation ground truth used by Auto mode.
func (s *Session) SetTruePosition(p geo.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.truePos = &p
}

// ClearTruePosition removes the ground truth (e.g. leaving demo mode).
func (s *Session) ClearTruePosition() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.truePos = nil
}

// Mode returns the active distance mode.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// CycleMode advances Auto -> Optimal -> Manual -> Auto. Entering Manual
// resets the overrides to the last computed Optimal values so the operator
// edits from a sane baseline.
func (s *Session) CycleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = s.mode.Next()
	if s.mode == ModeManual {
		s.overrides = make(map[string]float64, len(s.sensors))
		for _, node := range s.sensors {
			s.overrides[node.ID] = s.optimalLocked(node)
		}
	}
	monitoring.Log().WithField("mode", s.mode.String()).Info("distance mode changed")
	return s.mode
}

// SetManualRadius stores an operator override, effective in Manual mode.
func (s *Session) SetManualRadius(sensorID string, radius float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sensorID]; !ok {
		return fmt.Errorf("session: unknown sensor %q", sensorID)
	}
	if radius <= 0 {
		return fmt.Errorf("session: radius must be positive, got %g", radius)
	}
	s.overrides[sensorID] = radius
	return nil
}

// ResolveRadius derives a sensor's effective detection radius under the
// active mode.
func (s *Session) ResolveRadius(sensorID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.byID[sensorID]
	if !ok {
		return 0, fmt.Errorf("session: unknown sensor %q", sensorID)
	}
	return s.resolveLocked(node), nil
}

func (s *Session) resolveLocked(node *SensorNode) float64 {
	switch s.mode {
	case ModeAuto:
		if s.truePos != nil {
			return geo.Dist(node.Position, *s.truePos)
		}
		if sample, ok := s.samples[node.ID]; ok {
			return sample.Distance
		}
		return node.BaseRadius
	case ModeOptimal:
		return s.optimalLocked(node)
	default: // ModeManual
		if r, ok := s.overrides[node.ID]; ok {
			return r
		}
		return s.optimalLocked(node)
	}
}

func (s *Session) optimalLocked(node *SensorNode) float64 {
	layout := s.layoutLocked()
	var self constraint.Sensor
	for _, c := range layout {
		if c.ID == node.ID {
			self = c
			break
		}
	}
	return s.validator.OptimalRadius(self, layout, node.BaseRadius)
}

func (s *Session) layoutLocked() []constraint.Sensor {
	layout := make([]constraint.Sensor, len(s.sensors))
	for i, node := range s.sensors {
		layout[i] = constraint.Sensor{
			ID:       node.ID,
			Position: node.Position,
			Radius:   node.DetectionRadius,
		}
	}
	return layout
}

// Violations returns the constraint violations from the last Estimate call.
func (s *Session) Violations() []constraint.Violation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]constraint.Violation, len(s.violations))
	copy(out, s.violations)
	return out
}

// Sensors returns a snapshot of the sensor nodes in layout order.
func (s *Session) Sensors() []SensorNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SensorNode, len(s.sensors))
	for i, node := range s.sensors {
		out[i] = *node
	}
	return out
}

// LatestSample returns the retained sample for a sensor, if any.
func (s *Session) LatestSample(sensorID string) (RangeSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sample, ok := s.samples[sensorID]
	return sample, ok
}

// LastPosition returns the most recent estimate, if one exists.
func (s *Session) LastPosition() (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Position{}, false
	}
	return *s.last, true
}

// Estimate runs one solve tick: resolve radii, validate the layout, solve
// from the freshest samples, and boundary-check the result. On recoverable
// solver failures the last known position is returned flagged stale.
func (s *Session) Estimate(now time.Time) (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Resolve effective radii under the active mode.
	for _, node := range s.sensors {
		node.DetectionRadius = s.resolveLocked(node)
	}

	// Never solve against an illegal layout.
	s.violations = s.validator.ValidateLayout(s.layoutLocked())
	if len(s.violations) > 0 {
		return s.staleLocked(), fmt.Errorf("%w: %d violations", ErrLayoutInvalid, len(s.violations))
	}

	// Collect sensors with fresh samples, freshest first, so a degraded
	// set still prefers the most recent readings.
	type candidate struct {
		node   *SensorNode
		sample RangeSample
	}
	var fresh []candidate
	for _, node := range s.sensors {
		sample, ok := s.samples[node.ID]
		if !ok || now.Sub(sample.Timestamp) > s.cfg.Solver.Freshness {
			continue
		}
		fresh = append(fresh, candidate{node: node, sample: sample})
	}
	if len(fresh) < 3 {
		return s.staleLocked(), fmt.Errorf("%w: %d fresh sensors", trilat.ErrNotEnoughSensors, len(fresh))
	}
	sort.Slice(fresh, func(i, j int) bool {
		return fresh[i].sample.Timestamp.After(fresh[j].sample.Timestamp)
	})

	inputs := make([]trilat.Input, len(fresh))
	for i, c := range fresh {
		inputs[i] = trilat.Input{
			ID:        c.node.ID,
			Circle:    geo.Circle{Center: c.node.Position, Radius: c.node.DetectionRadius},
			SampledAt: c.sample.Timestamp,
		}
	}

	est, err := s.solver.Solve(inputs, now)
	if errors.Is(err, trilat.ErrInsufficientGeometry) {
		est, err = s.solver.SolveLeastSquares(inputs, now)
		if err == nil {
			monitoring.Log().Debug("triangle solve failed, least-squares fallback used")
		}
	}
	if err != nil {
		monitoring.Log().WithError(err).Debug("no new position this tick")
		return s.staleLocked(), err
	}

	pos := Position{
		Point:        est.Position,
		TriangleArea: est.TriangleArea,
		Quality:      est.Quality,
		Timestamp:    est.Timestamp,
		Fallback:     est.Fallback,
	}
	if !constraint.ValidateBoundary(pos.Point, s.cfg.GridWidth, s.cfg.GridHeight, s.cfg.BoundaryMargin) {
		// Clamp for display, flag quality as degraded.
		pos.OutOfBounds = true
		pos.Point.X = geo.Clamp(pos.Point.X, s.cfg.BoundaryMargin, s.cfg.GridWidth-s.cfg.BoundaryMargin)
		pos.Point.Y = geo.Clamp(pos.Point.Y, s.cfg.BoundaryMargin, s.cfg.GridHeight-s.cfg.BoundaryMargin)
		pos.Quality /= 2
	}

	s.last = &pos
	return pos, nil
}

// staleLocked returns the last known position flagged stale, or a zero
// Position when no estimate has ever succeeded.
func (s *Session) staleLocked() Position {
	if s.last == nil {
		return Position{Stale: true}
	}
	pos := *s.last
	pos.Stale = true
	return pos
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echogrid/internal/config"
	"echogrid/internal/geo"
	"echogrid/internal/trilat"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(config.Default())
	require.NoError(t, err)
	return s
}

// feedExact ingests perfect range samples for every sensor at the given time.
func feedExact(t *testing.T, s *Session, target geo.Point, at time.Time) {
	t.Helper()
	for _, node := range s.Sensors() {
		require.NoError(t, s.Ingest(RangeSample{
			SensorID:  node.ID,
			Distance:  geo.Dist(node.Position, target),
			Timestamp: at,
		}))
	}
}

func TestModeCycling(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, ModeAuto, s.Mode())
	assert.Equal(t, ModeOptimal, s.CycleMode())
	assert.Equal(t, ModeManual, s.CycleMode())
	assert.Equal(t, ModeAuto, s.CycleMode())
}

func TestResolveRadiusAuto(t *testing.T) {
	s := newTestSession(t)
	now := time.Now()

	t.Run("ground truth wins when set", func(t *testing.T) {
		s.SetTruePosition(geo.Point{X: 100, Y: 75})
		r, err := s.ResolveRadius("S1")
		require.NoError(t, err)
		assert.InDelta(t, 45.0, r, 1e-9) // S1 at (100, 120)
		s.ClearTruePosition()
	})

	t.Run("latest sample otherwise", func(t *testing.T) {
		require.NoError(t, s.Ingest(RangeSample{SensorID: "S1", Distance: 42, Timestamp: now}))
		r, err := s.ResolveRadius("S1")
		require.NoError(t, err)
		assert.InDelta(t, 42.0, r, 1e-9)
	})

	t.Run("base radius with no data", func(t *testing.T) {
		r, err := s.ResolveRadius("S2")
		require.NoError(t, err)
		assert.Equal(t, 60.0, r)
	})

	t.Run("unknown sensor", func(t *testing.T) {
		_, err := s.ResolveRadius("nope")
		assert.Error(t, err)
	})
}

// nearestDist returns the distance from the named sensor to its closest
// neighbour in the default layout.
func nearestDist(t *testing.T, s *Session, id string) float64 {
	t.Helper()
	nodes := s.Sensors()
	var self SensorNode
	for _, n := range nodes {
		if n.ID == id {
			self = n
		}
	}
	min := -1.0
	for _, n := range nodes {
		if n.ID == id {
			continue
		}
		if d := geo.Dist(self.Position, n.Position); min < 0 || d < min {
			min = d
		}
	}
	return min
}

func TestResolveRadiusOptimal(t *testing.T) {
	s := newTestSession(t)
	s.CycleMode() // optimal

	want := nearestDist(t, s, "S2") - config.Default().SafetyMargin
	r, err := s.ResolveRadius("S2")
	require.NoError(t, err)
	assert.InDelta(t, want, r, 1e-9)
}

func TestResolveRadiusManual(t *testing.T) {
	s := newTestSession(t)
	s.CycleMode() // optimal
	s.CycleMode() // manual, seeded from optimal

	want := nearestDist(t, s, "S2") - config.Default().SafetyMargin
	r, err := s.ResolveRadius("S2")
	require.NoError(t, err)
	assert.InDelta(t, want, r, 1e-9) // seeded from optimal

	require.NoError(t, s.SetManualRadius("S2", 55))
	r, err = s.ResolveRadius("S2")
	require.NoError(t, err)
	assert.Equal(t, 55.0, r)

	assert.Error(t, s.SetManualRadius("S2", -1))
	assert.Error(t, s.SetManualRadius("nope", 50))
}

func TestIngestSmoothing(t *testing.T) {
	s := newTestSession(t)
	now := time.Now()

	require.NoError(t, s.Ingest(RangeSample{SensorID: "S1", Distance: 100, Timestamp: now}))
	require.NoError(t, s.Ingest(RangeSample{SensorID: "S1", Distance: 50, Timestamp: now.Add(time.Second)}))

	sample, ok := s.LatestSample("S1")
	require.True(t, ok)
	// EMA: 100*(1-alpha) + 50*alpha
	want := 100*(1-config.SmoothingAlpha) + 50*config.SmoothingAlpha
	assert.InDelta(t, want, sample.Distance, 1e-9)
	assert.Equal(t, now.Add(time.Second), sample.Timestamp)

	assert.Error(t, s.Ingest(RangeSample{SensorID: "nope", Distance: 10, Timestamp: now}))
}

func TestEstimateRecoversPosition(t *testing.T) {
	s := newTestSession(t)
	now := time.Now()
	target := geo.Point{X: 100, Y: 75}

	feedExact(t, s, target, now)

	pos, err := s.Estimate(now)
	require.NoError(t, err)
	assert.InDelta(t, target.X, pos.Point.X, 1e-3)
	assert.InDelta(t, target.Y, pos.Point.Y, 1e-3)
	assert.Greater(t, pos.Quality, 0.99)
	assert.False(t, pos.Stale)
	assert.False(t, pos.OutOfBounds)

	got, ok := s.LastPosition()
	require.True(t, ok)
	assert.Equal(t, pos, got)
}

func TestEstimateRejectsInvalidLayout(t *testing.T) {
	cfg := config.Default()
	// Two sensors 30 cm apart with radii that swallow each other.
	cfg.Sensors = []config.SensorConfig{
		{ID: "A", X: 50, Y: 75, BaseRadius: 50},
		{ID: "B", X: 80, Y: 75, BaseRadius: 60},
		{ID: "C", X: 150, Y: 75, BaseRadius: 40},
	}
	s, err := New(cfg)
	require.NoError(t, err)
	now := time.Now()

	// Auto mode with no samples falls back to base radii, which violate.
	_, err = s.Estimate(now)
	require.ErrorIs(t, err, ErrLayoutInvalid)
	assert.NotEmpty(t, s.Violations())

	// No estimate was ever produced.
	_, ok := s.LastPosition()
	assert.False(t, ok)
}

func TestEstimateRequiresThreeFreshSensors(t *testing.T) {
	s := newTestSession(t)
	now := time.Now()
	target := geo.Point{X: 100, Y: 75}

	// A first good solve so there is a position to freeze.
	feedExact(t, s, target, now)
	first, err := s.Estimate(now)
	require.NoError(t, err)

	// Two sensors go stale; only S1 stays fresh.
	later := now.Add(5 * time.Second)
	require.NoError(t, s.Ingest(RangeSample{
		SensorID:  "S1",
		Distance:  45,
		Timestamp: later,
	}))

	pos, err := s.Estimate(later)
	require.ErrorIs(t, err, trilat.ErrNotEnoughSensors)
	assert.True(t, pos.Stale)
	assert.Equal(t, first.Point, pos.Point)
}

func TestEstimatePrefersFreshestSamples(t *testing.T) {
	cfg := config.Default()
	cfg.Sensors = append(cfg.Sensors, config.SensorConfig{ID: "S4", X: 100, Y: 30, BaseRadius: 60})
	s, err := New(cfg)
	require.NoError(t, err)

	now := time.Now()
	target := geo.Point{X: 100, Y: 75}

	// S1 is older than the rest but still fresh.
	for _, node := range s.Sensors() {
		at := now
		if node.ID == "S1" {
			at = now.Add(-2 * time.Second)
		}
		require.NoError(t, s.Ingest(RangeSample{
			SensorID:  node.ID,
			Distance:  geo.Dist(node.Position, target),
			Timestamp: at,
		}))
	}

	pos, err := s.Estimate(now)
	require.NoError(t, err)
	assert.InDelta(t, target.X, pos.Point.X, 1e-3)
	assert.InDelta(t, target.Y, pos.Point.Y, 1e-3)
}

func TestEstimateFlagsOutOfBounds(t *testing.T) {
	cfg := config.Default()
	// Sensors hugging the left edge so the solve lands inside the margin.
	cfg.Sensors = []config.SensorConfig{
		{ID: "A", X: 5, Y: 40, BaseRadius: 60},
		{ID: "B", X: 45, Y: 75, BaseRadius: 60},
		{ID: "C", X: 5, Y: 110, BaseRadius: 60},
	}
	s, err := New(cfg)
	require.NoError(t, err)
	now := time.Now()

	target := geo.Point{X: 8, Y: 75} // inside the 10 cm margin
	feedExact(t, s, target, now)

	pos, err := s.Estimate(now)
	require.NoError(t, err)
	assert.True(t, pos.OutOfBounds)
	assert.GreaterOrEqual(t, pos.Point.X, cfg.BoundaryMargin)
	assert.Less(t, pos.Quality, 0.5+1e-9) // halved
}

func TestEstimateLeastSquaresFallback(t *testing.T) {
	cfg := config.Default()
	// Radii too small to intersect pairwise, so the triangle method fails,
	// but the linearized system still has a solution.
	cfg.Sensors = []config.SensorConfig{
		{ID: "A", X: 40, Y: 75, BaseRadius: 60},
		{ID: "B", X: 160, Y: 75, BaseRadius: 60},
		{ID: "C", X: 100, Y: 130, BaseRadius: 60},
	}
	s, err := New(cfg)
	require.NoError(t, err)

	now := time.Now()
	target := geo.Point{X: 100, Y: 75}
	for _, node := range s.Sensors() {
		require.NoError(t, s.Ingest(RangeSample{
			SensorID:  node.ID,
			Distance:  geo.Dist(node.Position, target) * 0.5, // shrink so circles separate
			Timestamp: now,
		}))
	}

	pos, err := s.Estimate(now)
	require.NoError(t, err)
	assert.True(t, pos.Fallback)
	assert.False(t, pos.Stale)
}

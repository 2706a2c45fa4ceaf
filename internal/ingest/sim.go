package ingest

import (
	"context"
	"math"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"echogrid/internal/config"
	"echogrid/internal/geo"
)

// SimSource generates range samples for demo mode: a virtual object drifts
// along a smooth bounded path and each configured sensor reports its exact
// distance plus gaussian noise.
type SimSource struct {
	cfg     config.Config
	program *tea.Program
	cancel  context.CancelFunc
	started time.Time
}

// NewSimSource creates a demo source over the configured grid and sensors.
func NewSimSource(cfg config.Config) *SimSource {
	return &SimSource{cfg: cfg}
}

// Start begins emitting samples every config.DemoInterval.
func (s *SimSource) Start(p *tea.Program) error {
	s.program = p
	s.started = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.loop(ctx)
	return nil
}

func (s *SimSource) loop(ctx context.Context) {
	ticker := time.NewTicker(config.DemoInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.emit(now)
		}
	}
}

func (s *SimSource) emit(now time.Time) {
	pos := s.positionAt(now.Sub(s.started).Seconds())
	if s.program == nil {
		return
	}
	s.program.Send(TruePositionMsg{Position: pos})
	for _, sensor := range s.cfg.Sensors {
		d := geo.Dist(geo.Point{X: sensor.X, Y: sensor.Y}, pos)
		d += rand.NormFloat64() * s.cfg.DemoNoiseStdDev
		if d < 0 {
			d = 0
		}
		s.program.Send(RangeSampleMsg{
			SensorID:  sensor.ID,
			Distance:  d,
			Timestamp: now,
		})
	}
}

// positionAt traces a Lissajous-style figure that stays inside the grid
// boundary margin. elapsed is in seconds; DemoSpeed sets cycles per minute.
func (s *SimSource) positionAt(elapsed float64) geo.Point {
	omega := 2 * math.Pi * s.cfg.DemoSpeed / 60
	t := elapsed * omega

	cx := s.cfg.GridWidth / 2
	cy := s.cfg.GridHeight / 2
	ax := s.cfg.GridWidth/2 - s.cfg.BoundaryMargin
	ay := s.cfg.GridHeight/2 - s.cfg.BoundaryMargin

	return geo.Point{
		X: cx + ax*0.8*math.Sin(t),
		Y: cy + ay*0.8*math.Sin(2*t+math.Pi/3),
	}
}

// Stop halts the simulation.
func (s *SimSource) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

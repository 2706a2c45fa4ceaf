package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echogrid/internal/config"
)

func TestSimPositionStaysInsideMargin(t *testing.T) {
	cfg := config.Default()
	src := NewSimSource(cfg)

	for sec := 0.0; sec < 120; sec += 0.25 {
		p := src.positionAt(sec)
		assert.GreaterOrEqual(t, p.X, cfg.BoundaryMargin, "t=%g", sec)
		assert.LessOrEqual(t, p.X, cfg.GridWidth-cfg.BoundaryMargin, "t=%g", sec)
		assert.GreaterOrEqual(t, p.Y, cfg.BoundaryMargin, "t=%g", sec)
		assert.LessOrEqual(t, p.Y, cfg.GridHeight-cfg.BoundaryMargin, "t=%g", sec)
	}
}

func TestSimPositionMoves(t *testing.T) {
	src := NewSimSource(config.Default())
	a := src.positionAt(0)
	b := src.positionAt(3)
	assert.NotEqual(t, a, b)
}

func TestRSSIToDistance(t *testing.T) {
	t.Run("measured power maps to one meter", func(t *testing.T) {
		assert.InDelta(t, 1.0, RSSIToDistance(config.MeasuredPower, config.MeasuredPower, config.PathLossExp), 1e-9)
	})

	t.Run("weaker signal means farther away", func(t *testing.T) {
		near := RSSIToDistance(-50, config.MeasuredPower, config.PathLossExp)
		far := RSSIToDistance(-80, config.MeasuredPower, config.PathLossExp)
		assert.Greater(t, far, near)
	})

	t.Run("nonsense RSSI floors at 10 cm", func(t *testing.T) {
		assert.Equal(t, 0.1, RSSIToDistance(5, config.MeasuredPower, config.PathLossExp))
		assert.Equal(t, 0.1, RSSIToDistance(-1, config.MeasuredPower, config.PathLossExp))
	})
}

func TestBLESourceRequiresMACBindings(t *testing.T) {
	cfg := config.Default() // default sensors carry no MACs
	_, err := NewBLESource(cfg)
	require.Error(t, err)

	for i := range cfg.Sensors {
		cfg.Sensors[i].MAC = "AA:BB:CC:DD:EE:0" + string(rune('1'+i))
	}
	src, err := NewBLESource(cfg)
	require.NoError(t, err)
	assert.Len(t, src.byMAC, 3)
}

// Package ingest produces range samples: from real BLE sensors over RSSI,
// or from a built-in simulation in demo mode. Sources push samples into the
// UI event loop via tea.Program.Send.
package ingest

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"echogrid/internal/geo"
)

// RangeSampleMsg is sent via tea.Program.Send when a sensor reports a range.
// Distance is in centimeters.
type RangeSampleMsg struct {
	SensorID  string
	Distance  float64
	Timestamp time.Time
}

// TruePositionMsg carries the simulation's ground-truth object position.
// Only the demo source emits it.
type TruePositionMsg struct {
	Position geo.Point
}

// SourceErrorMsg reports a source failure after Start returned.
type SourceErrorMsg struct {
	Err error
}

// RangeSource is a stream of range samples. Start begins emission in a
// goroutine; discovered samples arrive as tea messages.
type RangeSource interface {
	Start(p *tea.Program) error
	Stop()
}

package ingest

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"tinygo.org/x/bluetooth"

	"echogrid/internal/config"
	"echogrid/internal/monitoring"
)

// BLESource reads ranges from real BLE sensor beacons. Each configured
// sensor is bound by MAC address; advertisement RSSI is converted to
// distance with the log-distance path loss model.
type BLESource struct {
	cfg     config.Config
	adapter *bluetooth.Adapter
	program *tea.Program
	byMAC   map[string]string // normalized MAC -> sensor ID
	running bool
}

// NewBLESource creates a BLE source over the default adapter. Every sensor
// must carry a MAC binding in the config.
func NewBLESource(cfg config.Config) (*BLESource, error) {
	byMAC := make(map[string]string, len(cfg.Sensors))
	for _, sensor := range cfg.Sensors {
		if sensor.MAC == "" {
			return nil, fmt.Errorf("sensor %s has no MAC binding; use demo mode or set sensors[].mac", sensor.ID)
		}
		byMAC[strings.ToUpper(sensor.MAC)] = sensor.ID
	}
	return &BLESource{
		cfg:     cfg,
		adapter: bluetooth.DefaultAdapter,
		byMAC:   byMAC,
	}, nil
}

// Start enables the adapter and begins scanning in a goroutine. Matching
// advertisements are converted to range samples and sent as tea messages.
func (s *BLESource) Start(p *tea.Program) error {
	s.program = p

	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	s.running = true
	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !s.running {
				return
			}
			sensorID, ok := s.byMAC[strings.ToUpper(result.Address.String())]
			if !ok {
				return
			}
			cm := RSSIToDistance(float64(result.RSSI), config.MeasuredPower, config.PathLossExp) * 100

			monitoring.Log().WithField("sensor", sensorID).
				WithField("rssi", result.RSSI).
				WithField("cm", cm).
				Trace("ble range sample")

			if s.program != nil {
				s.program.Send(RangeSampleMsg{
					SensorID:  sensorID,
					Distance:  cm,
					Timestamp: time.Now(),
				})
			}
		})
		if err != nil && s.running && s.program != nil {
			s.program.Send(SourceErrorMsg{Err: fmt.Errorf("ble scan stopped: %w", err)})
		}
	}()

	return nil
}

// Stop halts the BLE scan.
func (s *BLESource) Stop() {
	s.running = false
	_ = s.adapter.StopScan()
}

// RSSIToDistance estimates distance in meters from RSSI using the
// log-distance path loss model: d = 10^((measuredPower - rssi) / (10 * n)).
func RSSIToDistance(rssi, measuredPower, pathLossExp float64) float64 {
	if rssi >= 0 {
		return 0.1
	}
	d := math.Pow(10, (measuredPower-rssi)/(10*pathLossExp))
	if d < 0.1 {
		return 0.1
	}
	return d
}

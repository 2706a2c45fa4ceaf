package config

import "time"

const (
	// RSSI to distance estimation (log-distance path loss model)
	MeasuredPower = -59.0 // RSSI at 1 meter (dBm)
	PathLossExp   = 2.5   // Path loss exponent (N)

	// Display
	AspectRatio = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	TargetFPS   = 30  // Target frames per second
	TraceLength = 48  // Estimated-position trace points kept for display

	// Sample handling
	SmoothingAlpha = 0.3                    // EMA smoothing factor (30% new, 70% old)
	DemoInterval   = 500 * time.Millisecond // Demo sensor reporting period (2 Hz)

	// App
	AppName    = "ECHOGRID"
	AppVersion = "1.0"
)

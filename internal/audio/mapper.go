// Package audio maps sensor distances to playback parameters and schedules
// per-device audio channels under play-to-completion semantics.
package audio

import "echogrid/internal/geo"

// Pitch multipliers are clamped to a range that stays listenable.
const (
	PitchMin = 0.5
	PitchMax = 2.0
)

// Params are the playback parameters derived from one distance value.
type Params struct {
	Volume       float64 // [0, volume limit]
	Pitch        float64 // playback-rate multiplier, 1 = neutral
	FilterCutoff float64 // Hz, higher = brighter
	ReverbMix    float64 // [0, 1] wet fraction, 0 = neutral
}

// MapperConfig configures MapDistance. The three effect sub-mappings are
// independently togglable; disabled effects return their neutral values.
type MapperConfig struct {
	Curve       Curve
	Steepness   float64
	MinDistance float64
	MaxDistance float64
	MinVolume   float64
	MaxVolume   float64
	VolumeLimit float64

	PitchEnabled bool
	PitchRange   float64

	FilterEnabled bool
	FilterFloorHz float64
	FilterRangeHz float64

	ReverbEnabled bool
	ReverbRange   float64
}

// MapDistance is a pure function from a distance in centimeters to playback
// parameters: closer means louder, higher pitched, brighter, and drier.
func MapDistance(distance float64, cfg MapperConfig) Params {
	d := geo.Clamp(distance, cfg.MinDistance, cfg.MaxDistance)
	t := 0.0
	if cfg.MaxDistance > cfg.MinDistance {
		t = (d - cfg.MinDistance) / (cfg.MaxDistance - cfg.MinDistance)
	}

	ratio := cfg.Curve.VolumeRatio(t, cfg.Steepness)
	p := Params{
		Volume:       geo.Clamp(cfg.MinVolume+(cfg.MaxVolume-cfg.MinVolume)*ratio, 0, cfg.VolumeLimit),
		Pitch:        1,
		FilterCutoff: cfg.FilterFloorHz + cfg.FilterRangeHz,
		ReverbMix:    0,
	}

	if cfg.PitchEnabled {
		p.Pitch = geo.Clamp(1+(1-t)*cfg.PitchRange-cfg.PitchRange/2, PitchMin, PitchMax)
	}
	if cfg.FilterEnabled {
		p.FilterCutoff = cfg.FilterFloorHz + (1-t)*cfg.FilterRangeHz
	}
	if cfg.ReverbEnabled {
		p.ReverbMix = t * cfg.ReverbRange
	}
	return p
}

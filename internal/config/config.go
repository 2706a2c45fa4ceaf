// Package config holds the tunable runtime configuration for echogrid.
// Values come from code defaults, optionally overridden by a YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SensorConfig describes one fixed range sensor placed on the grid.
type SensorConfig struct {
	ID         string  `mapstructure:"id"`
	X          float64 `mapstructure:"x"`
	Y          float64 `mapstructure:"y"`
	BaseRadius float64 `mapstructure:"base_radius"`
	MAC        string  `mapstructure:"mac"` // BLE binding, empty in demo mode
}

// SolverConfig tunes the trilateration solver.
type SolverConfig struct {
	// Epsilon is the tolerance used when verifying that a candidate
	// triangle vertex lies on both circles it was derived from.
	Epsilon float64 `mapstructure:"epsilon"`
	// ReferenceArea normalizes triangle area into the quality score.
	ReferenceArea float64 `mapstructure:"reference_area"`
	// Freshness is the maximum sample age the solver will accept.
	Freshness time.Duration `mapstructure:"freshness"`
}

// AudioConfig tunes the distance-to-parameter mapping.
type AudioConfig struct {
	Curve       string  `mapstructure:"curve"` // linear, exponential, logarithmic, inverse_square, sigmoid, quadratic, power
	Steepness   float64 `mapstructure:"steepness"`
	MinDistance float64 `mapstructure:"min_distance"` // cm
	MaxDistance float64 `mapstructure:"max_distance"` // cm
	MinVolume   float64 `mapstructure:"min_volume"`
	MaxVolume   float64 `mapstructure:"max_volume"`
	VolumeLimit float64 `mapstructure:"volume_limit"`

	PitchEnabled bool    `mapstructure:"pitch_enabled"`
	PitchRange   float64 `mapstructure:"pitch_range"`

	FilterEnabled bool    `mapstructure:"filter_enabled"`
	FilterFloorHz float64 `mapstructure:"filter_floor_hz"`
	FilterRangeHz float64 `mapstructure:"filter_range_hz"`

	ReverbEnabled bool    `mapstructure:"reverb_enabled"`
	ReverbRange   float64 `mapstructure:"reverb_range"`
}

// Config is the root configuration.
type Config struct {
	// Grid geometry, in centimeters.
	GridWidth  float64 `mapstructure:"grid_width"`
	GridHeight float64 `mapstructure:"grid_height"`

	// Layout constraints.
	BoundaryMargin float64 `mapstructure:"boundary_margin"` // cm
	SafetyMargin   float64 `mapstructure:"safety_margin"`   // cm, sensor separation
	MinRadius      float64 `mapstructure:"min_radius"`      // cm, optimal-radius floor

	// Cadences.
	SolveInterval time.Duration `mapstructure:"solve_interval"`
	AudioTick     time.Duration `mapstructure:"audio_tick"`

	// Demo simulation.
	DemoNoiseStdDev float64 `mapstructure:"demo_noise_stddev"` // cm
	DemoSpeed       float64 `mapstructure:"demo_speed"`        // path cycles per minute

	Solver  SolverConfig   `mapstructure:"solver"`
	Audio   AudioConfig    `mapstructure:"audio"`
	Sensors []SensorConfig `mapstructure:"sensors"`
}

// Default returns the built-in configuration: a 200x150 cm grid with three
// sensors in an equilateral triangle around the grid center.
func Default() Config {
	return Config{
		GridWidth:      200,
		GridHeight:     150,
		BoundaryMargin: 10,
		SafetyMargin:   5,
		MinRadius:      20,
		SolveInterval:  500 * time.Millisecond,
		AudioTick:      100 * time.Millisecond,

		DemoNoiseStdDev: 2.0,
		DemoSpeed:       2.0,

		Solver: SolverConfig{
			Epsilon:       1e-5,
			ReferenceArea: 2000,
			Freshness:     3 * time.Second,
		},
		Audio: AudioConfig{
			Curve:         "exponential",
			Steepness:     4,
			MinDistance:   5,
			MaxDistance:   150,
			MinVolume:     0.05,
			MaxVolume:     1.0,
			VolumeLimit:   1.0,
			PitchEnabled:  true,
			PitchRange:    1.0,
			FilterEnabled: true,
			FilterFloorHz: 200,
			FilterRangeHz: 800,
			ReverbEnabled: true,
			ReverbRange:   0.5,
		},
		Sensors: []SensorConfig{
			{ID: "S1", X: 100, Y: 120, BaseRadius: 60},
			{ID: "S2", X: 61, Y: 52.5, BaseRadius: 60},
			{ID: "S3", X: 139, Y: 52.5, BaseRadius: 60},
		},
	}
}

// Load reads an optional YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("grid_width", cfg.GridWidth)
	v.SetDefault("grid_height", cfg.GridHeight)
	v.SetDefault("boundary_margin", cfg.BoundaryMargin)
	v.SetDefault("safety_margin", cfg.SafetyMargin)
	v.SetDefault("min_radius", cfg.MinRadius)
	v.SetDefault("solve_interval", cfg.SolveInterval)
	v.SetDefault("audio_tick", cfg.AudioTick)
	v.SetDefault("demo_noise_stddev", cfg.DemoNoiseStdDev)
	v.SetDefault("demo_speed", cfg.DemoSpeed)
	v.SetDefault("solver.epsilon", cfg.Solver.Epsilon)
	v.SetDefault("solver.reference_area", cfg.Solver.ReferenceArea)
	v.SetDefault("solver.freshness", cfg.Solver.Freshness)
	v.SetDefault("audio.curve", cfg.Audio.Curve)
	v.SetDefault("audio.steepness", cfg.Audio.Steepness)
	v.SetDefault("audio.min_distance", cfg.Audio.MinDistance)
	v.SetDefault("audio.max_distance", cfg.Audio.MaxDistance)
	v.SetDefault("audio.min_volume", cfg.Audio.MinVolume)
	v.SetDefault("audio.max_volume", cfg.Audio.MaxVolume)
	v.SetDefault("audio.volume_limit", cfg.Audio.VolumeLimit)
	v.SetDefault("audio.pitch_enabled", cfg.Audio.PitchEnabled)
	v.SetDefault("audio.pitch_range", cfg.Audio.PitchRange)
	v.SetDefault("audio.filter_enabled", cfg.Audio.FilterEnabled)
	v.SetDefault("audio.filter_floor_hz", cfg.Audio.FilterFloorHz)
	v.SetDefault("audio.filter_range_hz", cfg.Audio.FilterRangeHz)
	v.SetDefault("audio.reverb_enabled", cfg.Audio.ReverbEnabled)
	v.SetDefault("audio.reverb_range", cfg.Audio.ReverbRange)
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %gx%g", c.GridWidth, c.GridHeight)
	}
	if c.BoundaryMargin < 0 || 2*c.BoundaryMargin >= c.GridWidth || 2*c.BoundaryMargin >= c.GridHeight {
		return fmt.Errorf("boundary_margin %g does not fit the %gx%g grid", c.BoundaryMargin, c.GridWidth, c.GridHeight)
	}
	if c.SafetyMargin < 0 {
		return fmt.Errorf("safety_margin must be non-negative, got %g", c.SafetyMargin)
	}
	if c.MinRadius <= 0 {
		return fmt.Errorf("min_radius must be positive, got %g", c.MinRadius)
	}
	if c.SolveInterval <= 0 || c.AudioTick <= 0 {
		return fmt.Errorf("solve_interval and audio_tick must be positive")
	}
	if c.Solver.Epsilon <= 0 {
		return fmt.Errorf("solver.epsilon must be positive, got %g", c.Solver.Epsilon)
	}
	if c.Solver.ReferenceArea <= 0 {
		return fmt.Errorf("solver.reference_area must be positive, got %g", c.Solver.ReferenceArea)
	}
	if c.Solver.Freshness <= 0 {
		return fmt.Errorf("solver.freshness must be positive, got %s", c.Solver.Freshness)
	}
	if c.Audio.MinDistance < 0 || c.Audio.MaxDistance <= c.Audio.MinDistance {
		return fmt.Errorf("audio distance range [%g, %g] is invalid", c.Audio.MinDistance, c.Audio.MaxDistance)
	}
	if c.Audio.MinVolume < 0 || c.Audio.MaxVolume < c.Audio.MinVolume {
		return fmt.Errorf("audio volume range [%g, %g] is invalid", c.Audio.MinVolume, c.Audio.MaxVolume)
	}
	if c.Audio.VolumeLimit <= 0 || c.Audio.VolumeLimit > 1 {
		return fmt.Errorf("audio.volume_limit must be in (0, 1], got %g", c.Audio.VolumeLimit)
	}
	switch c.Audio.Curve {
	case "linear", "exponential", "logarithmic", "inverse_square", "sigmoid", "quadratic", "power":
	default:
		return fmt.Errorf("unknown audio.curve %q", c.Audio.Curve)
	}
	if len(c.Sensors) < 3 {
		return fmt.Errorf("at least 3 sensors required, got %d", len(c.Sensors))
	}
	seen := make(map[string]bool, len(c.Sensors))
	for _, s := range c.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensor with empty id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate sensor id %q", s.ID)
		}
		seen[s.ID] = true
		if s.BaseRadius <= 0 {
			return fmt.Errorf("sensor %s: base_radius must be positive, got %g", s.ID, s.BaseRadius)
		}
	}
	return nil
}

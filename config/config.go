// Package config provides configuration loading and access for the lamp engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Filter    FilterConfig    `yaml:"filter"`
	Energy    EnergyConfig    `yaml:"energy"`
	Mapping   MappingConfig   `yaml:"mapping"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Engine    EngineConfig    `yaml:"engine"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FilterConfig holds per-axis temporal smoothing parameters.
// Each axis carries its own time constant so valence, arousal and dominance
// can react at different speeds.
type FilterConfig struct {
	TauValence   float64 `yaml:"tau_valence"` // Seconds to ~63% of a step change
	TauArousal   float64 `yaml:"tau_arousal"`
	TauDominance float64 `yaml:"tau_dominance"`
	MaxStep      float64 `yaml:"max_step"` // Per-tick bound on how far the target may pull the state
}

// EnergyConfig holds the excitation/decay pool parameters.
type EnergyConfig struct {
	Gain      float64 `yaml:"gain"`       // Excitation scale (wake speed)
	DecayRate float64 `yaml:"decay_rate"` // Exponential decay toward zero (afterglow speed)
	LevelMax  float64 `yaml:"level_max"`
}

// MappingConfig holds visual mapping coefficients.
type MappingConfig struct {
	HueCold        float64 `yaml:"hue_cold"`   // Hue at valence=-1 (degrees)
	HueWarm        float64 `yaml:"hue_warm"`   // Hue at valence=+1
	HueSpread      float64 `yaml:"hue_spread"` // Secondary hue offset at dominance=-1 (degrees)
	SizeMax        float64 `yaml:"size_max"`   // Mean blob radius at arousal=0 (world units)
	SizeMin        float64 `yaml:"size_min"`   // Mean blob radius at arousal=1
	ViscosityMax   float64 `yaml:"viscosity_max"`  // Damping at arousal=0 (calm, syrupy)
	ViscosityMin   float64 `yaml:"viscosity_min"`  // Damping at arousal=1 (agitated, watery)
	BuoyancyRange  float64 `yaml:"buoyancy_range"` // Buoyancy at valence=+1 (negated at -1)
	BaseTurbulence float64 `yaml:"base_turbulence"`
	ArousalGain    float64 `yaml:"arousal_gain"` // Turbulence per unit arousal
	EnergyGain     float64 `yaml:"energy_gain"`  // Turbulence per unit normalized energy
	ShakeGain      float64 `yaml:"shake_gain"`   // Shake per unit |dominance|*energy
	GravityBase    float64 `yaml:"gravity_base"` // Lateral sway base amplitude
	GravityAmp     float64 `yaml:"gravity_amp"`  // Lateral sway amplitude per unit energy
}

// FluidConfig holds the blob simulation parameters.
type FluidConfig struct {
	Width          float64 `yaml:"width"`  // World width (normalized units)
	Height         float64 `yaml:"height"` // World height
	CountMin       int     `yaml:"count_min"`
	CountMax       int     `yaml:"count_max"`
	MergeFactor    float64 `yaml:"merge_factor"`     // Merge when dist < factor * (r1+r2)
	MergeCooldown  float64 `yaml:"merge_cooldown"`   // Seconds before a merged blob may merge or split again
	SplitCooldown  float64 `yaml:"split_cooldown"`   // Seconds before a split child may merge or split again
	SplitOffset    float64 `yaml:"split_offset"`     // Child displacement from parent on split
	SplitKick      float64 `yaml:"split_kick"`       // Opposed child velocity magnitude on split
	NoiseSeed      int64   `yaml:"noise_seed"`       // Turbulence field seed
	NoiseScale     float64 `yaml:"noise_scale"`      // Spatial frequency of the turbulence field
	NoiseTimeScale float64 `yaml:"noise_time_scale"` // Temporal frequency of the turbulence field
	MassTolerance  float64 `yaml:"mass_tolerance"`   // Relative tolerance on mass conservation checks
}

// EngineConfig holds tick orchestration parameters.
type EngineConfig struct {
	MaxDT float64 `yaml:"max_dt"` // Clamp on wall-clock dt (0 = unclamped); frame-drop resilience
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Window length in simulation seconds
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SizeMean float64 // Midpoint of [SizeMin, SizeMax], used when seeding the first population
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks invariants that would corrupt the simulation if violated.
// Invalid combinations are fatal at startup, never detected per tick.
func (c *Config) Validate() error {
	if c.Filter.TauValence <= 0 || c.Filter.TauArousal <= 0 || c.Filter.TauDominance <= 0 {
		return fmt.Errorf("config: filter time constants must be positive (got v=%g a=%g d=%g)",
			c.Filter.TauValence, c.Filter.TauArousal, c.Filter.TauDominance)
	}
	if c.Filter.MaxStep <= 0 {
		return fmt.Errorf("config: filter max_step must be positive (got %g)", c.Filter.MaxStep)
	}
	if c.Energy.Gain < 0 || c.Energy.DecayRate < 0 {
		return fmt.Errorf("config: energy gain and decay_rate must be non-negative (got gain=%g decay=%g)",
			c.Energy.Gain, c.Energy.DecayRate)
	}
	if c.Energy.LevelMax <= 0 {
		return fmt.Errorf("config: energy level_max must be positive (got %g)", c.Energy.LevelMax)
	}
	if c.Fluid.CountMin < 1 {
		return fmt.Errorf("config: fluid count_min must be at least 1 (got %d)", c.Fluid.CountMin)
	}
	if c.Fluid.CountMin > c.Fluid.CountMax {
		return fmt.Errorf("config: fluid count_min %d exceeds count_max %d", c.Fluid.CountMin, c.Fluid.CountMax)
	}
	if c.Fluid.Width <= 0 || c.Fluid.Height <= 0 {
		return fmt.Errorf("config: fluid world dimensions must be positive (got %gx%g)", c.Fluid.Width, c.Fluid.Height)
	}
	if c.Fluid.MergeFactor <= 0 {
		return fmt.Errorf("config: fluid merge_factor must be positive (got %g)", c.Fluid.MergeFactor)
	}
	if c.Fluid.MergeCooldown < 0 || c.Fluid.SplitCooldown < 0 {
		return fmt.Errorf("config: fluid cooldowns must be non-negative (got merge=%g split=%g)",
			c.Fluid.MergeCooldown, c.Fluid.SplitCooldown)
	}
	if c.Fluid.NoiseScale <= 0 {
		return fmt.Errorf("config: fluid noise_scale must be positive (got %g)", c.Fluid.NoiseScale)
	}
	if c.Fluid.NoiseTimeScale < 0 {
		return fmt.Errorf("config: fluid noise_time_scale must be non-negative (got %g)", c.Fluid.NoiseTimeScale)
	}
	if c.Fluid.MassTolerance <= 0 {
		return fmt.Errorf("config: fluid mass_tolerance must be positive (got %g)", c.Fluid.MassTolerance)
	}
	if c.Mapping.SizeMin <= 0 || c.Mapping.SizeMax < c.Mapping.SizeMin {
		return fmt.Errorf("config: mapping sizes must satisfy 0 < size_min <= size_max (got %g..%g)",
			c.Mapping.SizeMin, c.Mapping.SizeMax)
	}
	if c.Mapping.ViscosityMin < 0 || c.Mapping.ViscosityMax > 1 || c.Mapping.ViscosityMax < c.Mapping.ViscosityMin {
		return fmt.Errorf("config: mapping viscosity range must satisfy 0 <= min <= max <= 1 (got %g..%g)",
			c.Mapping.ViscosityMin, c.Mapping.ViscosityMax)
	}
	if c.Engine.MaxDT < 0 {
		return fmt.Errorf("config: engine max_dt must be non-negative (got %g)", c.Engine.MaxDT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.SizeMean = (c.Mapping.SizeMin + c.Mapping.SizeMax) / 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

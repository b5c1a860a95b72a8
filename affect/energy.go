package affect

import "github.com/pthm-cable/magma/config"

// EnergyPool accumulates excitation and decays it exponentially toward zero.
// Excitation comes from arousal plus the tracking error between the raw and
// smoothed samples, so a sudden emotional shift injects energy even when the
// filtered signal is still catching up. One formula yields both regimes:
// a fast wake when excitation dominates and a slow afterglow once it stops.
type EnergyPool struct {
	gain      float64
	decayRate float64
	levelMax  float64

	level float64
}

// NewEnergyPool creates a pool from validated config.
func NewEnergyPool(cfg config.EnergyConfig) *EnergyPool {
	return &EnergyPool{
		gain:      cfg.Gain,
		decayRate: cfg.DecayRate,
		levelMax:  cfg.LevelMax,
	}
}

// Update integrates the pool over dt seconds and returns the new level.
// dt must already be validated non-negative by the caller (the filter
// rejects the tick before energy runs).
func (p *EnergyPool) Update(raw, smoothed Sample, dt float64) float64 {
	arousal01 := (smoothed.Arousal + 1) / 2
	delta := (abs(raw.Valence-smoothed.Valence) +
		abs(raw.Arousal-smoothed.Arousal) +
		abs(raw.Dominance-smoothed.Dominance)) / 3

	excitation := p.gain * (arousal01 + delta)
	p.level += (excitation - p.decayRate*p.level) * dt
	p.level = clamp(p.level, 0, p.levelMax)
	return p.level
}

// Level returns the current energy level.
func (p *EnergyPool) Level() float64 {
	return p.level
}

// Normalized returns the level scaled to [0, 1].
func (p *EnergyPool) Normalized() float64 {
	return p.level / p.levelMax
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

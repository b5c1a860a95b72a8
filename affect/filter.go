package affect

import (
	"fmt"
	"math"

	"github.com/pthm-cable/magma/config"
)

// Filter applies one-pole exponential smoothing to each axis independently.
// The alpha term 1-exp(-dt/tau) is exact for variable dt, so the filter is
// stable for any dt >= 0 without sub-stepping. A per-tick max step bounds how
// far the target may pull the state, which absorbs upstream spikes.
type Filter struct {
	tauValence   float64
	tauArousal   float64
	tauDominance float64
	maxStep      float64

	state Sample
}

// NewFilter creates a filter from validated config.
func NewFilter(cfg config.FilterConfig) *Filter {
	return &Filter{
		tauValence:   cfg.TauValence,
		tauArousal:   cfg.TauArousal,
		tauDominance: cfg.TauDominance,
		maxStep:      cfg.MaxStep,
	}
}

// Update advances the smoothed state toward raw over dt seconds and returns
// the new state. dt=0 leaves the state unchanged; dt<0 is a contract
// violation and is rejected without touching the state.
func (f *Filter) Update(raw Sample, dt float64) (Sample, error) {
	if dt < 0 {
		return f.state, fmt.Errorf("affect: negative dt %g", dt)
	}
	if dt == 0 {
		return f.state, nil
	}

	raw = raw.Clamped()
	f.state = Sample{
		Valence:   f.axis(f.state.Valence, raw.Valence, f.tauValence, dt),
		Arousal:   f.axis(f.state.Arousal, raw.Arousal, f.tauArousal, dt),
		Dominance: f.axis(f.state.Dominance, raw.Dominance, f.tauDominance, dt),
	}
	return f.state, nil
}

func (f *Filter) axis(cur, target, tau, dt float64) float64 {
	alpha := 1 - math.Exp(-dt/tau)
	bounded := cur + clamp(target-cur, -f.maxStep, f.maxStep)
	return clamp(lerp(cur, bounded, alpha), -1, 1)
}

// State returns the current smoothed sample.
func (f *Filter) State() Sample {
	return f.state
}

package visual

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/magma/affect"
	"github.com/pthm-cable/magma/config"
)

// Surface tension and field threshold ranges, driven by dominance.
// Dominant moods hold blobs together; submissive moods let them smear.
const (
	tensionLow    = 0.2
	tensionHigh   = 1.0
	thresholdLow  = 0.9
	thresholdHigh = 1.2
)

// Mapper is a pure function from (smoothed VAD, energy, sim time) to Params.
// It keeps no state: identical inputs always produce identical output, and
// every output varies continuously and monotonically with each input axis so
// the picture never pops.
type Mapper struct {
	cfg      config.MappingConfig
	countMin int
	countMax int
}

// NewMapper creates a mapper from validated config.
func NewMapper(cfg config.MappingConfig, countMin, countMax int) *Mapper {
	return &Mapper{cfg: cfg, countMin: countMin, countMax: countMax}
}

// Map produces the visual snapshot for one tick. energy must be normalized
// to [0, 1]; t is accumulated simulation time in seconds.
func (m *Mapper) Map(s affect.Sample, energy, t float64) Params {
	nv := (s.Valence + 1) / 2
	na := (s.Arousal + 1) / 2
	nd := (s.Dominance + 1) / 2

	// Hue runs cold to warm with valence; arousal saturates and brightens.
	hue := lerp(m.cfg.HueCold, m.cfg.HueWarm, nv)
	sat := 0.3 + 0.7*na
	val := 0.4 + 0.6*na

	// Low dominance spreads the secondary hue away from the primary.
	hue2 := math.Mod(hue+m.cfg.HueSpread*(1-nd)+360, 360)

	countF := clamp(0.7*na+0.3*energy, 0, 1)
	count := m.countMin + int(math.Round(countF*float64(m.countMax-m.countMin)))

	freq := 0.1 + na*1.5
	amp := m.cfg.GravityBase + energy*m.cfg.GravityAmp

	return Params{
		Primary:         colorful.Hsv(hue, sat, val),
		Secondary:       colorful.Hsv(hue2, sat, val),
		BlobCountTarget: count,
		Size:            lerp(m.cfg.SizeMax, m.cfg.SizeMin, na),
		SurfaceTension:  lerp(tensionLow, tensionHigh, nd),
		Viscosity:       lerp(m.cfg.ViscosityMax, m.cfg.ViscosityMin, na),
		Buoyancy:        lerp(-m.cfg.BuoyancyRange, m.cfg.BuoyancyRange, nv),
		Turbulence:      m.cfg.BaseTurbulence + na*m.cfg.ArousalGain + energy*m.cfg.EnergyGain,
		Shake:           m.cfg.ShakeGain * math.Abs(s.Dominance) * energy,
		Threshold:       lerp(thresholdHigh, thresholdLow, nd),
		GravityX:        math.Sin(2*math.Pi*freq*t) * amp,
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Package systems implements the blob fluid simulation.
package systems

import opensimplex "github.com/ojrac/opensimplex-go"

// TurbulenceField produces a bounded, divergence-free 2D flow from seeded
// simplex noise. The field is a pure function of position and simulation
// time, so runs with the same seed replay bit for bit.
type TurbulenceField struct {
	noise     opensimplex.Noise
	scale     float64
	timeScale float64
}

// NewTurbulenceField creates a field with the given seed and frequencies.
func NewTurbulenceField(seed int64, scale, timeScale float64) *TurbulenceField {
	return &TurbulenceField{
		noise:     opensimplex.NewNormalized(seed),
		scale:     scale,
		timeScale: timeScale,
	}
}

// Curl samples the flow vector at lamp position (x, y) and time t.
// Taking the curl of the scalar noise (dN/dy, -dN/dx) keeps the flow
// divergence-free, which reads as swirling rather than sources and sinks.
// Both components are clamped to [-1, 1].
func (f *TurbulenceField) Curl(x, y, t float64) (vx, vy float64) {
	const eps = 1e-3
	zt := t * f.timeScale

	dndy := (f.at(x, y+eps, zt) - f.at(x, y-eps, zt)) / (2 * eps * f.scale)
	dndx := (f.at(x+eps, y, zt) - f.at(x-eps, y, zt)) / (2 * eps * f.scale)

	return clamp(dndy, -1, 1), clamp(-dndx, -1, 1)
}

func (f *TurbulenceField) at(x, y, z float64) float64 {
	return f.noise.Eval3(x*f.scale, y*f.scale, z)
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

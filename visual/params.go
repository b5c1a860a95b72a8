// Package visual maps the filtered affective state to renderer parameters.
package visual

import colorful "github.com/lucasb-eyer/go-colorful"

// Params is an immutable per-tick snapshot of everything the renderer and
// the fluid simulation need. Only the Mapper constructs it.
type Params struct {
	Primary   colorful.Color // Dominant blob color
	Secondary colorful.Color // Background/accent color, hue-shifted from Primary

	BlobCountTarget int     // Desired live blob count, within [count_min, count_max]
	Size            float64 // Mean blob radius in lamp units
	SurfaceTension  float64 // Cohesion hint for the renderer's field threshold
	Viscosity       float64 // Velocity damping in [0, 1]
	Buoyancy        float64 // Vertical force bias, positive = upward
	Turbulence      float64 // Lateral noise forcing magnitude, >= 0
	Shake           float64 // Whole-lamp jitter magnitude, >= 0
	Threshold       float64 // Metaball iso-surface threshold
	GravityX        float64 // Slow lateral sway force
}

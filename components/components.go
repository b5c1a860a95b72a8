// Package components defines ECS components for the blob simulation.
package components

// Position is a blob's center in normalized lamp coordinates.
type Position struct {
	X, Y float64
}

// Velocity is a blob's velocity in lamp units per second.
type Velocity struct {
	X, Y float64
}

// Body holds a blob's physical extent. Mass is Radius squared; merges and
// splits exchange mass, never radius, so the total stays conserved.
type Body struct {
	Radius float64
}

// Mass returns the area proxy used for conservation accounting.
func (b Body) Mass() float64 {
	return b.Radius * b.Radius
}

// Tint is a blob's blended color, each channel in [0, 1].
// Merges blend it mass-weighted; new blobs take the mapper's primary color.
type Tint struct {
	R, G, B float64
}

// Cooldown tracks hysteresis windows in seconds of simulation time.
// A blob may not merge while Merge > 0 nor split while Split > 0, except on
// the forced count-enforcement path.
type Cooldown struct {
	Merge float64
	Split float64
}

// Blob carries identity. IDs are assigned once, never reused for the blob's
// lifetime, and define the stable ordering of exported snapshots.
type Blob struct {
	ID uint32
}

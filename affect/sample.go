// Package affect turns raw valence/arousal/dominance samples into a smooth,
// render-rate-stable signal with an accumulated energy level.
package affect

import "sync/atomic"

// Sample is one valence/arousal/dominance reading.
// All axes live in [-1, 1]; Clamped enforces that on ingress.
type Sample struct {
	Valence   float64
	Arousal   float64
	Dominance float64
}

// Clamped returns the sample with every axis clamped to [-1, 1].
func (s Sample) Clamped() Sample {
	return Sample{
		Valence:   clamp(s.Valence, -1, 1),
		Arousal:   clamp(s.Arousal, -1, 1),
		Dominance: clamp(s.Dominance, -1, 1),
	}
}

// Slot is a last-value-wins handoff between one producer and one reader.
// The producer publishes at its own cadence; the tick loop reads the most
// recent value without blocking. Neither side ever waits for the other.
type Slot struct {
	val atomic.Pointer[Sample]
	def Sample
}

// NewSlot creates a slot that reports def until the first Publish.
func NewSlot(def Sample) *Slot {
	return &Slot{def: def.Clamped()}
}

// Publish stores a new sample, replacing any unread one.
func (s *Slot) Publish(sample Sample) {
	c := sample.Clamped()
	s.val.Store(&c)
}

// Latest returns the most recently published sample, or the configured
// default if nothing has ever arrived.
func (s *Slot) Latest() Sample {
	if p := s.val.Load(); p != nil {
		return *p
	}
	return s.def
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

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Package ui provides the interactive VAD control panel.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/magma/affect"
)

// VADPanel renders three sliders for valence, arousal and dominance and
// publishes changes into the engine's sample slot. It stands in for a real
// upstream affect source during interactive runs.
type VADPanel struct {
	x, y  float32
	width float32

	valence   float32
	arousal   float32
	dominance float32
}

// NewVADPanel creates a panel anchored at (x, y).
func NewVADPanel(x, y, width float32) *VADPanel {
	return &VADPanel{x: x, y: y, width: width}
}

// Draw renders the sliders and publishes the current values when any moved.
func (p *VADPanel) Draw(slot *affect.Slot) {
	y := p.y
	rl.DrawText("Affect", int32(p.x), int32(y), 18, rl.White)
	y += 28

	changed := false
	for _, s := range []struct {
		label string
		value *float32
	}{
		{"valence", &p.valence},
		{"arousal", &p.arousal},
		{"dominance", &p.dominance},
	} {
		rl.DrawText(s.label, int32(p.x), int32(y), 14, rl.LightGray)
		y += 18
		next := gui.SliderBar(
			rl.Rectangle{X: p.x, Y: y, Width: p.width - 50, Height: 18},
			"-1", "+1",
			*s.value, -1, 1,
		)
		rl.DrawText(fmt.Sprintf("%+.2f", *s.value), int32(p.x+p.width-44), int32(y+2), 14, rl.LightGray)
		if next != *s.value {
			*s.value = next
			changed = true
		}
		y += 28
	}

	if changed {
		slot.Publish(affect.Sample{
			Valence:   float64(p.valence),
			Arousal:   float64(p.arousal),
			Dominance: float64(p.dominance),
		})
	}
}

// Package renderer draws the lamp with raylib.
package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/magma/systems"
	"github.com/pthm-cable/magma/visual"
)

// LampView renders blob snapshots into the window.
// Blobs arrive as immutable copies, so drawing may overlap the next tick.
type LampView struct {
	width  int32
	height int32
}

// NewLampView creates a view for the given window size.
func NewLampView(width, height int32) *LampView {
	return &LampView{width: width, height: height}
}

// Draw renders one frame: background wash, blobs, glow passes.
func (v *LampView) Draw(params visual.Params, blobs []systems.BlobSnapshot, simTime float64) {
	// Shake displaces the whole lamp; driven by sim time so it is as
	// deterministic as everything else.
	shakeX := float32(math.Sin(simTime*37.0) * params.Shake * 8)
	shakeY := float32(math.Cos(simTime*43.0) * params.Shake * 8)

	v.drawBackground(params)

	scale := float32(v.height)
	for _, b := range blobs {
		sx := float32(b.X)*float32(v.width) + shakeX
		// Lamp coordinates are y-up; the screen is y-down.
		sy := (1-float32(b.Y))*float32(v.height) + shakeY
		radius := float32(b.Radius) * scale

		core := rl.NewColor(channel(b.R), channel(b.G), channel(b.B), 235)
		halo := rl.NewColor(channel(b.R), channel(b.G), channel(b.B), 0)

		// Halo size follows the metaball threshold: low threshold reads as
		// smeared blobs, high threshold as tight drops.
		haloScale := 1 + float32(1.6-params.Threshold)
		rl.DrawCircleGradient(int32(sx), int32(sy), radius*haloScale, core, halo)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius*0.8, core)
	}
}

// drawBackground fills a vertical wash from the secondary color into black.
func (v *LampView) drawBackground(params visual.Params) {
	top := rl.NewColor(
		channel(params.Secondary.R*0.35),
		channel(params.Secondary.G*0.35),
		channel(params.Secondary.B*0.35),
		255,
	)
	rl.DrawRectangleGradientV(0, 0, v.width, v.height, top, rl.Black)
}

// DrawHUD prints the current engine state in the corner.
func (v *LampView) DrawHUD(tick int, blobCount int, energy float64, paused bool) {
	rl.DrawText(fmt.Sprintf("Tick: %d", tick), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Blobs: %d  Energy: %.2f", blobCount, energy), 10, 35, 20, rl.White)
	if paused {
		rl.DrawText("PAUSED", 10, 60, 20, rl.Yellow)
	}
}

func channel(x float64) uint8 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return uint8(x * 255)
}

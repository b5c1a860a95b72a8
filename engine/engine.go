// Package engine ties the affect pipeline to the fluid simulation.
package engine

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/magma/affect"
	"github.com/pthm-cable/magma/config"
	"github.com/pthm-cable/magma/systems"
	"github.com/pthm-cable/magma/telemetry"
	"github.com/pthm-cable/magma/visual"
)

// Options configures optional engine behavior.
type Options struct {
	LogStats bool                     // Emit window stats via slog
	Output   *telemetry.OutputManager // CSV output; nil disables
}

// Engine owns one lamp's full state and advances it one tick at a time.
// Each tick runs the fixed sequence: latest sample, temporal filter, energy
// pool, visual mapper, fluid step. The engine itself only sequences and
// derives dt; all computation lives in the stages. Multiple engines can run
// independently in one process.
type Engine struct {
	slot      *affect.Slot
	filter    *affect.Filter
	energy    *affect.EnergyPool
	mapper    *visual.Mapper
	fluid     *systems.FluidSystem
	collector *telemetry.Collector
	opts      Options

	maxDT    float64
	tick     int
	simTime  float64
	lastTick time.Time
	params   visual.Params
}

// New builds an engine from validated config, reading samples from slot.
func New(cfg *config.Config, slot *affect.Slot, opts Options) *Engine {
	return &Engine{
		slot:      slot,
		filter:    affect.NewFilter(cfg.Filter),
		energy:    affect.NewEnergyPool(cfg.Energy),
		mapper:    visual.NewMapper(cfg.Mapping, cfg.Fluid.CountMin, cfg.Fluid.CountMax),
		fluid:     systems.NewFluidSystem(cfg.Fluid),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		opts:      opts,
		maxDT:     cfg.Engine.MaxDT,
	}
}

// Tick advances the engine by dt seconds and returns the tick's visual
// snapshot. dt must be non-negative; a negative dt rejects the whole tick
// and leaves every stage untouched.
func (e *Engine) Tick(dt float64) (visual.Params, error) {
	raw := e.slot.Latest()

	smoothed, err := e.filter.Update(raw, dt)
	if err != nil {
		return e.params, err
	}

	e.energy.Update(raw, smoothed, dt)
	e.simTime += dt
	e.tick++

	e.params = e.mapper.Map(smoothed, e.energy.Normalized(), e.simTime)
	stats := e.fluid.Step(e.params, dt)

	e.collector.RecordTick(stats, e.energy.Level(), e.fluid.TotalMass())
	if e.collector.ShouldFlush(e.simTime) {
		e.flushStats()
	}

	return e.params, nil
}

// Step advances by the wall-clock delta since the previous Step, clamped to
// max_dt when configured. The first Step uses a zero dt.
func (e *Engine) Step() (visual.Params, error) {
	now := time.Now()
	var dt float64
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick).Seconds()
	}
	e.lastTick = now

	if dt < 0 {
		dt = 0
	}
	if e.maxDT > 0 && dt > e.maxDT {
		dt = e.maxDT
	}
	return e.Tick(dt)
}

func (e *Engine) flushStats() {
	snaps := e.fluid.Snapshots()
	radii := make([]float64, len(snaps))
	for i, b := range snaps {
		radii[i] = b.Radius
	}

	ws := e.collector.Flush(e.tick, e.simTime, radii, e.fluid.TotalMass())
	if e.opts.LogStats {
		slog.Info("window stats", "stats", ws)
	}
	if err := e.opts.Output.WriteTelemetry(ws); err != nil {
		slog.Error("telemetry write failed", "error", err)
	}
}

// Params returns the most recent tick's visual snapshot.
func (e *Engine) Params() visual.Params {
	return e.params
}

// Blobs returns an immutable, id-ordered snapshot of the blob population.
// Safe to hand to a renderer running concurrently with the next Tick.
func (e *Engine) Blobs() []systems.BlobSnapshot {
	return e.fluid.Snapshots()
}

// Smoothed returns the current filtered sample.
func (e *Engine) Smoothed() affect.Sample {
	return e.filter.State()
}

// Energy returns the current energy pool level.
func (e *Engine) Energy() float64 {
	return e.energy.Level()
}

// Tick count and simulation time accessors.
func (e *Engine) TickCount() int     { return e.tick }
func (e *Engine) SimTime() float64   { return e.simTime }
func (e *Engine) BlobCount() int     { return e.fluid.Count() }
func (e *Engine) TotalMass() float64 { return e.fluid.TotalMass() }

package telemetry

import (
	"math"

	"github.com/pthm-cable/magma/systems"
)

// Collector accumulates per-tick events and produces WindowStats.
type Collector struct {
	windowSec float64

	windowStartTick int
	windowStartTime float64
	massStart       float64
	haveMassStart   bool

	merges       int
	splits       int
	forcedMerges int
	forcedSplits int
	energies     []float64
}

// NewCollector creates a collector with the given window length in
// simulation seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 1
	}
	return &Collector{windowSec: windowSec}
}

// RecordTick folds one tick's activity into the current window.
func (c *Collector) RecordTick(stats systems.TickStats, energy, totalMass float64) {
	c.merges += stats.Merges
	c.splits += stats.Splits
	c.forcedMerges += stats.ForcedMerges
	c.forcedSplits += stats.ForcedSplits
	c.energies = append(c.energies, energy)
	if !c.haveMassStart {
		c.massStart = totalMass
		c.haveMassStart = true
	}
}

// ShouldFlush reports whether the window has elapsed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowSec
}

// Flush closes the window, returning its stats and starting the next one.
// radii and totalMass describe the population at the flush instant.
func (c *Collector) Flush(tick int, simTime float64, radii []float64, totalMass float64) WindowStats {
	radiusMean, radiusStd, _ := Distribution(radii)
	energyMean, _, energyMax := Distribution(c.energies)

	var energyEnd float64
	if n := len(c.energies); n > 0 {
		energyEnd = c.energies[n-1]
	}

	var drift float64
	if c.haveMassStart && c.massStart > 0 {
		drift = math.Abs(totalMass-c.massStart) / c.massStart
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      simTime,
		BlobCount:       len(radii),
		RadiusMean:      radiusMean,
		RadiusStd:       radiusStd,
		TotalMass:       totalMass,
		Merges:          c.merges,
		Splits:          c.splits,
		ForcedMerges:    c.forcedMerges,
		ForcedSplits:    c.forcedSplits,
		EnergyMean:      energyMean,
		EnergyMax:       energyMax,
		EnergyEnd:       energyEnd,
		MassDriftRel:    drift,
	}

	c.windowStartTick = tick
	c.windowStartTime = simTime
	c.merges, c.splits, c.forcedMerges, c.forcedSplits = 0, 0, 0, 0
	c.energies = c.energies[:0]
	c.haveMassStart = false

	return stats
}

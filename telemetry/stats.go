// Package telemetry aggregates per-tick engine activity into window stats.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	BlobCount  int     `csv:"blobs"`
	RadiusMean float64 `csv:"radius_mean"`
	RadiusStd  float64 `csv:"radius_std"`
	TotalMass  float64 `csv:"total_mass"`

	// Topology events during the window
	Merges       int `csv:"merges"`
	Splits       int `csv:"splits"`
	ForcedMerges int `csv:"forced_merges"`
	ForcedSplits int `csv:"forced_splits"`

	// Energy pool over the window
	EnergyMean float64 `csv:"energy_mean"`
	EnergyMax  float64 `csv:"energy_max"`
	EnergyEnd  float64 `csv:"energy_end"`

	// Relative drift of the total mass proxy across the window. Merges and
	// splits conserve mass, so anything beyond float error is a bug.
	MassDriftRel float64 `csv:"mass_drift_rel"`
}

// Distribution summarizes a sample set.
func Distribution(values []float64) (mean, std, max float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	max = floats.Max(values)
	return mean, std, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("blobs", s.BlobCount),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_std", s.RadiusStd),
		slog.Float64("total_mass", s.TotalMass),
		slog.Int("merges", s.Merges),
		slog.Int("splits", s.Splits),
		slog.Int("forced_merges", s.ForcedMerges),
		slog.Int("forced_splits", s.ForcedSplits),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_max", s.EnergyMax),
		slog.Float64("energy_end", s.EnergyEnd),
		slog.Float64("mass_drift_rel", s.MassDriftRel),
	)
}

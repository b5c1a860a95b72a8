package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/magma/systems"
)

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(1.0)

	if c.ShouldFlush(0.5) {
		t.Error("window flushed before it elapsed")
	}

	c.RecordTick(systems.TickStats{Merges: 2, Splits: 1}, 3.0, 0.05)
	c.RecordTick(systems.TickStats{ForcedMerges: 1}, 5.0, 0.05)

	if !c.ShouldFlush(1.0) {
		t.Error("window should flush at its boundary")
	}

	stats := c.Flush(60, 1.0, []float64{0.1, 0.2}, 0.05)
	if stats.Merges != 2 || stats.Splits != 1 || stats.ForcedMerges != 1 {
		t.Errorf("event counts wrong: %+v", stats)
	}
	if stats.BlobCount != 2 {
		t.Errorf("blob count wrong: got %d", stats.BlobCount)
	}
	if stats.EnergyMax != 5.0 || stats.EnergyEnd != 5.0 {
		t.Errorf("energy stats wrong: max=%g end=%g", stats.EnergyMax, stats.EnergyEnd)
	}
	if math.Abs(stats.EnergyMean-4.0) > 1e-12 {
		t.Errorf("energy mean wrong: %g", stats.EnergyMean)
	}
	if stats.MassDriftRel != 0 {
		t.Errorf("constant mass should have zero drift, got %g", stats.MassDriftRel)
	}

	// Counters reset for the next window
	next := c.Flush(120, 2.0, nil, 0.05)
	if next.Merges != 0 || next.WindowStartTick != 60 {
		t.Errorf("window did not reset: %+v", next)
	}
}

func TestCollectorMassDrift(t *testing.T) {
	c := NewCollector(1.0)
	c.RecordTick(systems.TickStats{}, 0, 1.0)
	stats := c.Flush(10, 1.0, []float64{1.0}, 1.1)
	if math.Abs(stats.MassDriftRel-0.1) > 1e-12 {
		t.Errorf("expected 10%% drift, got %g", stats.MassDriftRel)
	}
}

func TestDistribution(t *testing.T) {
	mean, std, max := Distribution([]float64{1, 2, 3})
	if mean != 2 || max != 3 {
		t.Errorf("mean=%g max=%g", mean, max)
	}
	if std <= 0 {
		t.Errorf("std should be positive, got %g", std)
	}

	mean, std, max = Distribution(nil)
	if mean != 0 || std != 0 || max != 0 {
		t.Errorf("empty input should yield zeros, got %g %g %g", mean, std, max)
	}
}

func TestOutputManagerCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 60, BlobCount: 5}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 120, BlobCount: 6}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") {
		t.Errorf("header missing: %q", lines[0])
	}
	if strings.Contains(lines[2], "window_end") {
		t.Errorf("header repeated on append: %q", lines[2])
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("empty dir should disable output, got error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil receiver methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil manager write should be a no-op, got %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager close should be a no-op, got %v", err)
	}
}

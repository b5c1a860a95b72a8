package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path failed: %v", err)
	}

	if cfg.Fluid.CountMin < 1 {
		t.Errorf("default count_min should be at least 1, got %d", cfg.Fluid.CountMin)
	}
	if cfg.Fluid.CountMin > cfg.Fluid.CountMax {
		t.Errorf("default count_min %d exceeds count_max %d", cfg.Fluid.CountMin, cfg.Fluid.CountMax)
	}
	if cfg.Filter.TauArousal >= cfg.Filter.TauValence {
		t.Errorf("arousal should react faster than valence: tau_a=%g tau_v=%g",
			cfg.Filter.TauArousal, cfg.Filter.TauValence)
	}
	if cfg.Derived.SizeMean <= 0 {
		t.Errorf("derived size mean not computed, got %g", cfg.Derived.SizeMean)
	}
}

func TestLoadUserOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	user := "fluid:\n  count_min: 5\n  count_max: 9\n"
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatalf("writing user config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Fluid.CountMin != 5 || cfg.Fluid.CountMax != 9 {
		t.Errorf("override not applied: got min=%d max=%d", cfg.Fluid.CountMin, cfg.Fluid.CountMax)
	}
	// Untouched sections keep defaults
	if cfg.Filter.TauArousal == 0 {
		t.Error("defaults lost after merging user config")
	}
}

func TestValidateRejectsBadCounts(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Fluid.CountMin = 10
	cfg.Fluid.CountMax = 4
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected error for count_min > count_max")
	}
	if !strings.Contains(err.Error(), "count_min") {
		t.Errorf("error should name count_min, got: %v", err)
	}
}

func TestValidateRejectsBadTau(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg.Filter.TauArousal = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero time constant")
	}
}

func TestValidateRejectsBadNoise(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// A zero spatial scale would turn the turbulence field into 0/0 = NaN
	// and corrupt every blob position downstream.
	cfg.Fluid.NoiseScale = 0
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero noise_scale")
	}
	if !strings.Contains(err.Error(), "noise_scale") {
		t.Errorf("error should name noise_scale, got: %v", err)
	}

	cfg.Fluid.NoiseScale = 3.0
	cfg.Fluid.NoiseTimeScale = -0.1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative noise_time_scale")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

package affect

import (
	"testing"

	"github.com/pthm-cable/magma/config"
)

func testFilterConfig() config.FilterConfig {
	return config.FilterConfig{
		TauValence:   2.0,
		TauArousal:   0.6,
		TauDominance: 1.2,
		MaxStep:      0.25,
	}
}

func TestFilterSmoothsStepChange(t *testing.T) {
	f := NewFilter(testFilterConfig())
	target := Sample{Valence: 1, Arousal: 1, Dominance: 1}

	first, err := f.Update(target, 1.0/60)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	var last Sample
	for i := 0; i < 120; i++ {
		last, err = f.Update(target, 1.0/60)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	if !(first.Arousal < last.Arousal && last.Arousal < 1) {
		t.Errorf("arousal should approach 1 without reaching it: first=%g last=%g", first.Arousal, last.Arousal)
	}
	// Arousal has the shortest tau, so it converges fastest
	if last.Arousal <= last.Valence {
		t.Errorf("arousal (tau=0.6) should lead valence (tau=2.0): a=%g v=%g", last.Arousal, last.Valence)
	}
}

func TestFilterStaysInDomain(t *testing.T) {
	f := NewFilter(testFilterConfig())

	// Malformed upstream samples are clamped before filtering
	cases := []struct {
		name string
		raw  Sample
		dt   float64
	}{
		{"huge positive", Sample{Valence: 50, Arousal: 50, Dominance: 50}, 1.0 / 30},
		{"huge negative", Sample{Valence: -50, Arousal: -50, Dominance: -50}, 1.0 / 30},
		{"large dt", Sample{Valence: 1, Arousal: 1, Dominance: 1}, 10.0},
		{"tiny dt", Sample{Valence: -1, Arousal: -1, Dominance: -1}, 1e-9},
	}
	for _, tc := range cases {
		for i := 0; i < 50; i++ {
			got, err := f.Update(tc.raw, tc.dt)
			if err != nil {
				t.Fatalf("%s: Update failed: %v", tc.name, err)
			}
			for axis, v := range map[string]float64{"valence": got.Valence, "arousal": got.Arousal, "dominance": got.Dominance} {
				if v < -1 || v > 1 {
					t.Fatalf("%s: %s escaped domain: %g", tc.name, axis, v)
				}
			}
		}
	}
}

func TestFilterZeroDTIsNoOp(t *testing.T) {
	f := NewFilter(testFilterConfig())
	if _, err := f.Update(Sample{Valence: 0.5}, 0.1); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	before := f.State()
	got, err := f.Update(Sample{Valence: -1, Arousal: 1}, 0)
	if err != nil {
		t.Fatalf("Update with dt=0 failed: %v", err)
	}
	if got != before {
		t.Errorf("dt=0 changed state: before=%+v after=%+v", before, got)
	}
}

func TestFilterRejectsNegativeDT(t *testing.T) {
	f := NewFilter(testFilterConfig())
	before := f.State()
	if _, err := f.Update(Sample{Valence: 1}, -0.01); err == nil {
		t.Fatal("expected error for negative dt")
	}
	if f.State() != before {
		t.Error("rejected tick mutated filter state")
	}
}

func TestSlotLatest(t *testing.T) {
	def := Sample{Valence: 0.1}
	slot := NewSlot(def)

	if got := slot.Latest(); got != def {
		t.Errorf("empty slot should return default, got %+v", got)
	}

	slot.Publish(Sample{Valence: 2, Arousal: -3, Dominance: 0.5})
	got := slot.Latest()
	want := Sample{Valence: 1, Arousal: -1, Dominance: 0.5}
	if got != want {
		t.Errorf("published sample not clamped on ingress: got %+v want %+v", got, want)
	}

	// Repeated reads with no new publish observe the identical sample
	if again := slot.Latest(); again != got {
		t.Errorf("repeated read changed value: %+v vs %+v", again, got)
	}
}

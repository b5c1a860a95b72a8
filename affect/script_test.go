package affect

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.csv")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

func TestLoadScriptAndPlayback(t *testing.T) {
	path := writeScript(t, "time,valence,arousal,dominance\n0,0.2,-0.5,0\n2,0.8,0.9,-0.2\n4,0,0,0\n")

	script, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}

	// Values hold between keyframes
	if got := script.At(1.0); got.Valence != 0.2 {
		t.Errorf("at t=1 expected first frame, got %+v", got)
	}
	if got := script.At(2.5); got.Arousal != 0.9 {
		t.Errorf("at t=2.5 expected second frame, got %+v", got)
	}

	// Advance publishes into the slot and loops past the end
	slot := NewSlot(Sample{})
	script.Advance(2.1, slot)
	if got := slot.Latest(); got.Valence != 0.8 {
		t.Errorf("after advance to t=2.1 expected second frame, got %+v", got)
	}
	script.Advance(4.0, slot) // wraps to t=2.1
	if got := slot.Latest(); got.Valence != 0.8 {
		t.Errorf("looped playback should land on second frame, got %+v", got)
	}
}

func TestLoadScriptEmpty(t *testing.T) {
	path := writeScript(t, "time,valence,arousal,dominance\n")
	if _, err := LoadScript(path); err == nil {
		t.Fatal("expected error for script with no keyframes")
	}
}

func TestLoadScriptMissing(t *testing.T) {
	if _, err := LoadScript("/nonexistent/script.csv"); err == nil {
		t.Fatal("expected error for missing script file")
	}
}

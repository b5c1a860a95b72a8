package systems

import (
	"math"
	"testing"
)

func TestTurbulenceDeterministic(t *testing.T) {
	a := NewTurbulenceField(42, 3.0, 0.35)
	b := NewTurbulenceField(42, 3.0, 0.35)

	for _, pt := range [][3]float64{{0.1, 0.2, 0}, {0.9, 0.5, 1.5}, {0.33, 0.77, 123.4}} {
		ax, ay := a.Curl(pt[0], pt[1], pt[2])
		bx, by := b.Curl(pt[0], pt[1], pt[2])
		if ax != bx || ay != by {
			t.Errorf("same seed diverged at %v: (%g,%g) vs (%g,%g)", pt, ax, ay, bx, by)
		}
	}
}

func TestTurbulenceSeedMatters(t *testing.T) {
	a := NewTurbulenceField(1, 3.0, 0.35)
	b := NewTurbulenceField(2, 3.0, 0.35)

	same := true
	for x := 0.0; x < 1.0; x += 0.1 {
		ax, ay := a.Curl(x, 0.5, 0)
		bx, by := b.Curl(x, 0.5, 0)
		if ax != bx || ay != by {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical flow fields")
	}
}

func TestTurbulenceBounded(t *testing.T) {
	f := NewTurbulenceField(7, 5.0, 1.0)
	for x := 0.0; x <= 1.0; x += 0.05 {
		for y := 0.0; y <= 1.0; y += 0.05 {
			vx, vy := f.Curl(x, y, 3.21)
			if math.Abs(vx) > 1 || math.Abs(vy) > 1 {
				t.Fatalf("flow at (%g,%g) escaped [-1,1]: (%g,%g)", x, y, vx, vy)
			}
			if math.IsNaN(vx) || math.IsNaN(vy) {
				t.Fatalf("NaN flow at (%g,%g)", x, y)
			}
		}
	}
}

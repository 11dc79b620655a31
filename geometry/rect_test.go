package geometry

import (
	"math"
	"testing"
)

// almostEqual checks if two float32 values are approximately equal
func almostEqual(a, b, tolerance float32) bool {
	return float32(math.Abs(float64(a)-float64(b))) <= tolerance
}

func TestIoU(t *testing.T) {

	const tolerance = 1e-4

	tests := []struct {
		name string
		a, b Rect
		want float32
	}{
		{"identical", NewRect(10, 10, 50, 50), NewRect(10, 10, 50, 50), 1},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 10, 10), 0},
		{"touching edge", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), 0},
		// intersection 48x49=2352, union 2500+2500-2352=2648
		{"small shift", NewRect(10, 10, 50, 50), NewRect(12, 11, 50, 50), 2352.0 / 2648.0},
		// intersection 5x10=50, union 100+100-50=150
		{"half overlap", NewRect(0, 0, 10, 10), NewRect(5, 0, 10, 10), 50.0 / 150.0},
		{"contained", NewRect(0, 0, 100, 100), NewRect(25, 25, 50, 50), 0.25},
		{"zero size", NewRect(5, 5, 0, 0), NewRect(5, 5, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IoU(tt.a, tt.b)

			if !almostEqual(got, tt.want, tolerance) {
				t.Errorf("IoU(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}

			// IoU is symmetric
			if rev := IoU(tt.b, tt.a); !almostEqual(got, rev, tolerance) {
				t.Errorf("IoU not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestRectClip(t *testing.T) {

	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", NewRect(10, 10, 20, 20), NewRect(10, 10, 20, 20)},
		{"overhang left top", NewRect(-5, -10, 20, 20), NewRect(0, 0, 15, 10)},
		{"overhang right bottom", NewRect(90, 40, 20, 20), NewRect(90, 40, 10, 10)},
		{"outside", NewRect(200, 200, 20, 20), NewRect(100, 50, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clip(100, 50); got != tt.want {
				t.Errorf("Clip() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectFromTlbr(t *testing.T) {

	r := RectFromTlbr(Tlbr{79, 205, 169, 609})

	if r.Width != 90 || r.Height != 404 {
		t.Errorf("unexpected size %v", r)
	}

	if r.Tlbr() != (Tlbr{79, 205, 169, 609}) {
		t.Errorf("round trip mismatch %v", r.Tlbr())
	}
}

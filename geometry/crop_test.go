package geometry

import (
	"image"
	"testing"
)

func TestPadCrop(t *testing.T) {

	tests := []struct {
		name string
		bbox Rect
		pad  int
		want CropRegion
	}{
		{"interior", NewRect(100, 100, 50, 80), 20, CropRegion{80, 80, 90, 120}},
		{"clipped at origin", NewRect(5, 10, 50, 50), 20, CropRegion{0, 0, 90, 90}},
		{"clipped at far edge", NewRect(600, 440, 40, 40), 20, CropRegion{580, 420, 60, 60}},
		{"fractional floors", NewRect(30.7, 40.2, 10.5, 10.5), 0, CropRegion{30, 40, 10, 10}},
		{"outside frame", NewRect(700, 500, 10, 10), 20, CropRegion{680, 480, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PadCrop(tt.bbox, tt.pad, 640, 480); got != tt.want {
				t.Errorf("PadCrop() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCropRegionDegenerate(t *testing.T) {

	tests := []struct {
		crop CropRegion
		want bool
	}{
		{CropRegion{0, 0, 2, 2}, false},
		{CropRegion{0, 0, 1, 50}, true},
		{CropRegion{0, 0, 50, 1}, true},
		{CropRegion{0, 0, 0, 0}, true},
	}

	for _, tt := range tests {
		if got := tt.crop.Degenerate(); got != tt.want {
			t.Errorf("%+v Degenerate() = %v, want %v", tt.crop, got, tt.want)
		}
	}

	// a bbox hanging off the right edge leaves less than a pixel of width
	crop := PadCrop(NewRect(639.5, 100, 30, 30), 0, 640, 480)

	if !crop.Degenerate() {
		t.Errorf("expected edge crop %+v to be degenerate", crop)
	}
}

func TestCropRegionToFrame(t *testing.T) {

	crop := CropRegion{X: 10, Y: 10, Width: 100, Height: 100}

	got := crop.ToFrame(Landmark{X: 0.5, Y: 0.5, Z: -0.25, Visibility: 0.9})
	want := Landmark{X: 60, Y: 60, Z: -0.25, Visibility: 0.9}

	if got != want {
		t.Errorf("ToFrame() = %+v, want %+v", got, want)
	}

	corners := crop.LandmarksToFrame([]Landmark{{X: 0, Y: 0}, {X: 1, Y: 1}})

	if corners[0].X != 10 || corners[0].Y != 10 || corners[1].X != 110 || corners[1].Y != 110 {
		t.Errorf("unexpected corner mapping %+v", corners)
	}
}

func TestCropRegionNormalize(t *testing.T) {

	crop := CropRegion{X: 10, Y: 10, Width: 200, Height: 100}

	x, y := crop.Normalize(50, 75)

	if x != 0.25 || y != 0.75 {
		t.Errorf("Normalize() = %f,%f", x, y)
	}

	// normalising then mapping returns the frame pixel position
	lm := crop.ToFrame(Landmark{X: x, Y: y})

	if lm.X != 60 || lm.Y != 85 {
		t.Errorf("unexpected frame position %+v", lm)
	}

	if crop.Rectangle() != image.Rect(10, 10, 210, 110) {
		t.Errorf("unexpected rectangle %v", crop.Rectangle())
	}
}

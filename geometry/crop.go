package geometry

import (
	"image"
	"math"
)

// Landmark is a single pose landmark.  X and Y are either normalised to
// [0,1] within the crop the pose was estimated on, or frame pixels once
// mapped by CropRegion.ToFrame.  Z and Visibility are passed through
// untouched by every transform.
type Landmark struct {
	X          float32
	Y          float32
	Z          float32
	Visibility float32
}

// CropRegion is the padded, frame bounded sub-rectangle around a tracked
// person which is handed to the pose estimator
type CropRegion struct {
	// X is the crop origin x coordinate in the frame
	X int
	// Y is the crop origin y coordinate in the frame
	Y int
	// Width of the crop in pixels
	Width int
	// Height of the crop in pixels
	Height int
}

// PadCrop expands the bounding box by pad pixels on every side and clips the
// result to the frame bounds
func PadCrop(bbox Rect, pad, frameW, frameH int) CropRegion {

	p := float64(pad)

	x := math.Max(0, float64(bbox.X)-p)
	y := math.Max(0, float64(bbox.Y)-p)

	w := math.Min(float64(bbox.Width)+p*2, float64(frameW)-x)
	h := math.Min(float64(bbox.Height)+p*2, float64(frameH)-y)

	return CropRegion{
		X:      int(math.Floor(x)),
		Y:      int(math.Floor(y)),
		Width:  int(math.Floor(math.Max(0, w))),
		Height: int(math.Floor(math.Max(0, h))),
	}
}

// Degenerate reports if the crop is too small to run pose estimation on
func (c CropRegion) Degenerate() bool {
	return c.Width <= 1 || c.Height <= 1
}

// Rectangle returns the crop as an image.Rectangle for use as a Mat region
func (c CropRegion) Rectangle() image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// ToFrame maps a landmark normalised within the crop back onto full frame
// pixel coordinates
func (c CropRegion) ToFrame(lm Landmark) Landmark {
	return Landmark{
		X:          lm.X*float32(c.Width) + float32(c.X),
		Y:          lm.Y*float32(c.Height) + float32(c.Y),
		Z:          lm.Z,
		Visibility: lm.Visibility,
	}
}

// LandmarksToFrame maps all landmarks of a pose onto frame pixel coordinates
func (c CropRegion) LandmarksToFrame(lms []Landmark) []Landmark {

	out := make([]Landmark, len(lms))

	for i, lm := range lms {
		out[i] = c.ToFrame(lm)
	}

	return out
}

// Normalize converts crop pixel coordinates into coordinates normalised to
// the crop size
func (c CropRegion) Normalize(px, py float32) (float32, float32) {

	if c.Degenerate() {
		return 0, 0
	}

	return px / float32(c.Width), py / float32(c.Height)
}

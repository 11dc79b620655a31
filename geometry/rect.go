package geometry

import (
	"math"
)

// Tlbr (top left x, top left y, bottom right x, bottom right y) represents a
// box by its corner coordinates
type Tlbr [4]float32

// Rect represents a rectangle in frame pixel space with its origin at the top
// left corner
type Rect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// NewRect creates a new Rect with given coordinates
func NewRect(x, y, width, height float32) Rect {
	return Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// RectFromTlbr creates a Rect from Tlbr (top left, bottom right) format
func RectFromTlbr(tlbr Tlbr) Rect {
	return NewRect(tlbr[0], tlbr[1], tlbr[2]-tlbr[0], tlbr[3]-tlbr[1])
}

// TLX returns the top-left x coordinate of the rectangle
func (r Rect) TLX() float32 {
	return r.X
}

// TLY returns the top-left y coordinate of the rectangle
func (r Rect) TLY() float32 {
	return r.Y
}

// BRX returns the bottom-right x coordinate of the rectangle
func (r Rect) BRX() float32 {
	return r.X + r.Width
}

// BRY returns the bottom-right y coordinate of the rectangle
func (r Rect) BRY() float32 {
	return r.Y + r.Height
}

// Area returns the area of the rectangle, zero for empty rectangles
func (r Rect) Area() float32 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Tlbr converts the rectangle to Tlbr format
func (r Rect) Tlbr() Tlbr {
	return Tlbr{r.X, r.Y, r.BRX(), r.BRY()}
}

// Clip restricts the rectangle to the frame bounds [0,frameW] x [0,frameH].
// A rectangle lying wholly outside the frame collapses to zero size at the
// nearest edge.
func (r Rect) Clip(frameW, frameH int) Rect {

	fw := float32(frameW)
	fh := float32(frameH)

	x1 := clampF(r.X, 0, fw)
	y1 := clampF(r.Y, 0, fh)
	x2 := clampF(r.BRX(), 0, fw)
	y2 := clampF(r.BRY(), 0, fh)

	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}

	return RectFromTlbr(Tlbr{x1, y1, x2, y2})
}

// IoU calculates the Intersection over Union of two rectangles.  Coordinates
// are treated as continuous, so two identical rectangles return 1 and
// rectangles that only touch along an edge return 0.
func IoU(a, b Rect) float32 {

	x1 := math.Max(float64(a.X), float64(b.X))
	y1 := math.Max(float64(a.Y), float64(b.Y))
	x2 := math.Min(float64(a.BRX()), float64(b.BRX()))
	y2 := math.Min(float64(a.BRY()), float64(b.BRY()))

	inter := math.Max(0, x2-x1) * math.Max(0, y2-y1)
	union := float64(a.Area()) + float64(b.Area()) - inter

	if union <= 0 {
		return 0
	}

	return float32(inter / union)
}

// clampF restricts val to the range [lo, hi]
func clampF(val, lo, hi float32) float32 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

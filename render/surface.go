package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Surface is the transparent drawing layer placed over the video.  It is
// sized to the intrinsic resolution of the frames so drawing coordinates
// match frame pixel coordinates.  Unpainted pixels are black and treated as
// transparent when composited.
type Surface struct {
	// mat is the BGR drawing layer
	mat gocv.Mat
	// size is the allocated surface resolution
	size image.Point
	// gray and mask are scratch Mats used when compositing
	gray gocv.Mat
	mask gocv.Mat
	// allocs counts drawing layer allocations
	allocs int
}

// NewSurface returns an unallocated surface, call Resize before drawing
func NewSurface() *Surface {
	return &Surface{
		mat:  gocv.NewMat(),
		gray: gocv.NewMat(),
		mask: gocv.NewMat(),
	}
}

// Resize sizes the surface to the frame resolution.  The drawing layer is
// only reallocated when the resolution differs, returning true if it was.
func (s *Surface) Resize(width, height int) bool {

	size := image.Pt(width, height)

	if size == s.size && !s.mat.Empty() {
		return false
	}

	s.mat.Close()
	s.mat = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width,
		gocv.MatTypeCV8UC3)
	s.size = size
	s.allocs++

	return true
}

// Size returns the surface resolution
func (s *Surface) Size() image.Point {
	return s.size
}

// Allocations returns how many times the drawing layer has been allocated
func (s *Surface) Allocations() int {
	return s.allocs
}

// Mat returns the drawing layer
func (s *Surface) Mat() *gocv.Mat {
	return &s.mat
}

// Clear erases everything drawn on the surface
func (s *Surface) Clear() {
	if s.mat.Empty() {
		return
	}
	s.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Composite copies the frame into dst and lays the painted surface pixels
// over it
func (s *Surface) Composite(frame gocv.Mat, dst *gocv.Mat) error {

	if frame.Cols() != s.size.X || frame.Rows() != s.size.Y {
		return fmt.Errorf("frame %dx%d does not match surface %dx%d",
			frame.Cols(), frame.Rows(), s.size.X, s.size.Y)
	}

	if err := frame.CopyTo(dst); err != nil {
		return fmt.Errorf("error copying frame: %w", err)
	}

	gocv.CvtColor(s.mat, &s.gray, gocv.ColorBGRToGray)
	gocv.Threshold(s.gray, &s.mask, 0, 255, gocv.ThresholdBinary)

	if err := s.mat.CopyToWithMask(dst, s.mask); err != nil {
		return fmt.Errorf("error compositing overlay: %w", err)
	}

	return nil
}

// Close frees the surface Mats
func (s *Surface) Close() error {
	s.mat.Close()
	s.gray.Close()
	s.mask.Close()
	return nil
}

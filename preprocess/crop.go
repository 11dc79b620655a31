package preprocess

import (
	"fmt"
	"image"

	"github.com/swdee/go-poseoverlay/geometry"
	"gocv.io/x/gocv"
)

// cropBuffer is the reusable image a single track's crops are copied into
type cropBuffer struct {
	// mat holds the crop pixels
	mat gocv.Mat
	// size is the allocated crop size
	size image.Point
}

// CropBuffers keeps one crop image per track so pose estimation on every
// pose tick does not allocate a new Mat.  A buffer is only reallocated when
// the crop size of its track changes.  Not safe for concurrent use.
type CropBuffers struct {
	buffers map[uint64]*cropBuffer
	// allocs counts Mat allocations made, used for reporting reuse
	allocs int
}

// NewCropBuffers returns an empty set of crop buffers
func NewCropBuffers() *CropBuffers {
	return &CropBuffers{
		buffers: make(map[uint64]*cropBuffer),
	}
}

// Get returns the buffer for the track sized to the crop region, creating it
// on first use or reallocating it if the region size differs from the last
// crop
func (c *CropBuffers) Get(id uint64, region geometry.CropRegion) *gocv.Mat {

	size := image.Pt(region.Width, region.Height)
	buf, ok := c.buffers[id]

	if ok && buf.size == size {
		return &buf.mat
	}

	if ok {
		buf.mat.Close()
	} else {
		buf = &cropBuffer{}
		c.buffers[id] = buf
	}

	buf.mat = gocv.NewMatWithSize(size.Y, size.X, gocv.MatTypeCV8UC3)
	buf.size = size
	c.allocs++

	return &buf.mat
}

// Materialize copies the crop region of the frame into the track's buffer
// and returns it.  The returned Mat is a copy, it does not share memory with
// the frame and remains valid until the next Materialize or Release for the
// same track.
func (c *CropBuffers) Materialize(frame gocv.Mat, id uint64,
	region geometry.CropRegion) (*gocv.Mat, error) {

	if region.Degenerate() {
		return nil, fmt.Errorf("crop region %dx%d is degenerate", region.Width,
			region.Height)
	}

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	rect := region.Rectangle()

	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside of frame %v", rect, bounds)
	}

	if frame.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("unsupported frame type %v", frame.Type())
	}

	dst := c.Get(id, region)

	view := frame.Region(rect)
	defer view.Close()

	if err := view.CopyTo(dst); err != nil {
		return nil, fmt.Errorf("error copying crop: %w", err)
	}

	return dst, nil
}

// Release frees the buffer held for the track
func (c *CropBuffers) Release(id uint64) {
	if buf, ok := c.buffers[id]; ok {
		buf.mat.Close()
		delete(c.buffers, id)
	}
}

// Reset frees all buffers
func (c *CropBuffers) Reset() {
	for id, buf := range c.buffers {
		buf.mat.Close()
		delete(c.buffers, id)
	}
}

// Len returns the number of tracks holding a buffer
func (c *CropBuffers) Len() int {
	return len(c.buffers)
}

// Allocations returns the number of buffer allocations made since creation
func (c *CropBuffers) Allocations() int {
	return c.allocs
}

// Close frees all buffers
func (c *CropBuffers) Close() error {
	c.Reset()
	return nil
}

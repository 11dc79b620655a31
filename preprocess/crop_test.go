package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-poseoverlay/geometry"
	"gocv.io/x/gocv"
)

func newFrame(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w,
		gocv.MatTypeCV8UC3)
}

func TestCropBuffersReuse(t *testing.T) {

	bufs := NewCropBuffers()
	defer bufs.Close()

	region := geometry.CropRegion{X: 0, Y: 0, Width: 40, Height: 80}

	a := bufs.Get(1, region)
	b := bufs.Get(1, region)

	assert.Same(t, a, b)
	assert.Equal(t, 1, bufs.Allocations())
	assert.Equal(t, 40, a.Cols())
	assert.Equal(t, 80, a.Rows())

	// size change reallocates
	c := bufs.Get(1, geometry.CropRegion{Width: 50, Height: 80})
	assert.Equal(t, 2, bufs.Allocations())
	assert.Equal(t, 50, c.Cols())

	bufs.Get(2, region)
	assert.Equal(t, 2, bufs.Len())

	bufs.Release(1)
	assert.Equal(t, 1, bufs.Len())

	// releasing an unknown track is a no-op
	bufs.Release(99)
	assert.Equal(t, 1, bufs.Len())

	bufs.Reset()
	assert.Equal(t, 0, bufs.Len())
}

func TestMaterializeCopiesRegion(t *testing.T) {

	frame := newFrame(100, 100)
	defer frame.Close()

	// paint the crop area red
	gocv.Rectangle(&frame, image.Rect(10, 20, 30, 40), color.RGBA{R: 255, A: 255}, -1)

	bufs := NewCropBuffers()
	defer bufs.Close()

	region := geometry.CropRegion{X: 10, Y: 20, Width: 20, Height: 20}

	crop, err := bufs.Materialize(frame, 7, region)
	require.NoError(t, err)

	assert.Equal(t, 20, crop.Cols())
	assert.Equal(t, 20, crop.Rows())

	px := crop.GetVecbAt(5, 5)
	assert.Equal(t, gocv.Vecb{0, 0, 255}, px)

	// crop is a copy, changing the frame does not alter it
	gocv.Rectangle(&frame, image.Rect(0, 0, 100, 100), color.RGBA{G: 255, A: 255}, -1)
	assert.Equal(t, gocv.Vecb{0, 0, 255}, crop.GetVecbAt(5, 5))
}

func TestMaterializeRejectsBadRegions(t *testing.T) {

	frame := newFrame(100, 100)
	defer frame.Close()

	bufs := NewCropBuffers()
	defer bufs.Close()

	_, err := bufs.Materialize(frame, 1, geometry.CropRegion{X: 10, Y: 10, Width: 1, Height: 50})
	assert.Error(t, err)

	_, err = bufs.Materialize(frame, 1, geometry.CropRegion{X: 90, Y: 10, Width: 20, Height: 50})
	assert.Error(t, err)

	assert.Equal(t, 0, bufs.Len())
}

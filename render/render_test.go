package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-poseoverlay/geometry"
	"github.com/swdee/go-poseoverlay/tracker"
	"gocv.io/x/gocv"
)

// bgr converts a color to the pixel value gocv stores
func bgr(c color.RGBA) gocv.Vecb {
	return gocv.Vecb{c.B, c.G, c.R}
}

func TestParseColor(t *testing.T) {

	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0055", Magenta, false},
		{"#00FFCC", Aqua, false},
		{"white", White, false},
		{" Red ", color.RGBA{R: 255, A: 255}, false},
		{"#fff", color.RGBA{}, true},
		{"#gg0000", color.RGBA{}, true},
		{"notacolor", color.RGBA{}, true},
	}

	for _, tc := range tests {
		got, err := ParseColor(tc.in)

		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}

		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestSurfaceResizeOnlyOnChange(t *testing.T) {

	s := NewSurface()
	defer s.Close()

	assert.True(t, s.Resize(640, 480))
	assert.False(t, s.Resize(640, 480))
	assert.Equal(t, 1, s.Allocations())

	assert.True(t, s.Resize(1280, 720))
	assert.Equal(t, 2, s.Allocations())
	assert.Equal(t, 1280, s.Mat().Cols())
	assert.Equal(t, 720, s.Mat().Rows())
}

func TestTrackBoxesAndClear(t *testing.T) {

	s := NewSurface()
	defer s.Close()
	s.Resize(200, 200)

	tracks := []*tracker.Person{
		{ID: 3, Rect: geometry.NewRect(50, 50, 60, 100)},
	}

	style := DefaultStyle()
	TrackBoxes(s.Mat(), tracks, style)

	// left edge of the box
	assert.Equal(t, bgr(style.BoxColor), s.Mat().GetVecbAt(100, 50))
	// inside the box is untouched
	assert.Equal(t, gocv.Vecb{0, 0, 0}, s.Mat().GetVecbAt(100, 80))

	s.Clear()
	assert.Equal(t, gocv.Vecb{0, 0, 0}, s.Mat().GetVecbAt(100, 50))
}

func TestSkeletonsRespectVisibility(t *testing.T) {

	s := NewSurface()
	defer s.Close()
	s.Resize(200, 200)

	lms := make([]geometry.Landmark, 17)

	for i := range lms {
		lms[i] = geometry.Landmark{X: 10, Y: float32(10 + i*10), Visibility: 0.1}
	}

	// shoulders are joined by a connector
	lms[5] = geometry.Landmark{X: 40, Y: 100, Visibility: 0.9}
	lms[6] = geometry.Landmark{X: 160, Y: 100, Visibility: 0.9}

	style := DefaultStyle()
	style.MinVisibility = 0.5

	Skeletons(s.Mat(), [][]geometry.Landmark{lms}, style)

	assert.Equal(t, bgr(style.ConnectorColor), s.Mat().GetVecbAt(100, 100))
	assert.Equal(t, bgr(style.LandmarkColor), s.Mat().GetVecbAt(100, 40))
	assert.Equal(t, bgr(style.LandmarkColor), s.Mat().GetVecbAt(100, 160))

	// low visibility landmark is not drawn
	assert.Equal(t, gocv.Vecb{0, 0, 0}, s.Mat().GetVecbAt(10, 10))
}

func TestConnectionsFor(t *testing.T) {

	assert.Len(t, ConnectionsFor(33), 35)
	assert.Len(t, ConnectionsFor(17), 19)
	assert.Nil(t, ConnectionsFor(5))

	for _, conn := range BlazePoseConnections {
		assert.Less(t, conn.Start, 33)
		assert.Less(t, conn.End, 33)
	}

	for _, conn := range COCOConnections {
		assert.Less(t, conn.Start, 17)
		assert.Less(t, conn.End, 17)
	}
}

func TestComposite(t *testing.T) {

	s := NewSurface()
	defer s.Close()
	s.Resize(100, 100)

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 100, 100,
		gocv.MatTypeCV8UC3)
	defer frame.Close()

	tracks := []*tracker.Person{{ID: 0, Rect: geometry.NewRect(20, 20, 40, 40)}}
	TrackBoxes(s.Mat(), tracks, DefaultStyle())

	dst := gocv.NewMat()
	defer dst.Close()

	require.NoError(t, s.Composite(frame, &dst))

	// painted pixel replaces the frame, unpainted pixel shows the frame
	assert.Equal(t, bgr(Magenta), dst.GetVecbAt(40, 20))
	assert.Equal(t, gocv.Vecb{10, 20, 30}, dst.GetVecbAt(40, 40))

	small := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC3)
	defer small.Close()
	assert.Error(t, s.Composite(small, &dst))
}

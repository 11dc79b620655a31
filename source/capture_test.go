package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// fakeDevice produces frames of a fixed size
type fakeDevice struct {
	uri    string
	width  int
	height int
	closed bool
}

func (d *fakeDevice) Read(m *gocv.Mat) bool {
	if d.width == 0 {
		return false
	}
	frame := gocv.NewMatWithSize(d.height, d.width, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.CopyTo(m)
	return true
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

type opener struct {
	devices map[string]*fakeDevice
	opened  []string
}

func (o *opener) open(uri string) (Device, error) {
	dev, ok := o.devices[uri]
	if !ok {
		return nil, errors.New("no such device")
	}
	o.opened = append(o.opened, uri)
	return dev, nil
}

var feeds = []Feed{
	{ID: "front", URI: "0"},
	{ID: "back", URI: "rtsp://10.0.0.5/stream"},
	{ID: "broken", URI: "missing.mp4"},
}

func newOpener() *opener {
	return &opener{devices: map[string]*fakeDevice{
		"0":                      {uri: "0", width: 640, height: 480},
		"rtsp://10.0.0.5/stream": {uri: "rtsp", width: 1280, height: 720},
	}}
}

func TestCaptureOpensFirstFeed(t *testing.T) {

	o := newOpener()
	c, err := NewCapture(feeds, "", o.open, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "front", c.Active().ID)

	frame := gocv.NewMat()
	defer frame.Close()

	require.True(t, c.Read(&frame))
	assert.Equal(t, 640, frame.Cols())
	assert.Equal(t, 480, frame.Rows())
}

func TestCaptureSwitch(t *testing.T) {

	o := newOpener()
	c, err := NewCapture(feeds, "front", o.open, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Switch("back"))
	assert.True(t, o.devices["0"].closed)
	assert.Equal(t, "back", c.Active().ID)

	frame := gocv.NewMat()
	defer frame.Close()

	require.True(t, c.Read(&frame))
	assert.Equal(t, 1280, frame.Cols())

	// failed open keeps the current feed
	assert.Error(t, c.Switch("broken"))
	assert.Equal(t, "back", c.Active().ID)
	assert.False(t, o.devices["rtsp://10.0.0.5/stream"].closed)

	assert.ErrorIs(t, c.Switch("side"), ErrUnknownFeed)
}

func TestCaptureNextWraps(t *testing.T) {

	o := newOpener()
	c, err := NewCapture(feeds[:2], "back", o.open, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "front", c.Next())
}

func TestCaptureNoFeeds(t *testing.T) {
	_, err := NewCapture(nil, "", nil, nil)
	assert.Error(t, err)
}

func TestCaptureClosed(t *testing.T) {

	o := newOpener()
	c, err := NewCapture(feeds, "", o.open, nil)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	frame := gocv.NewMat()
	defer frame.Close()

	assert.False(t, c.Read(&frame))
}

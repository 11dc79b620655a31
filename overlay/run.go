package overlay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swdee/go-poseoverlay/engine"
	"gocv.io/x/gocv"
)

// ErrStop is returned by a PresentFunc to end the loop without error
var ErrStop = errors.New("overlay stopped")

// FrameSource provides the video frames the overlay runs against
type FrameSource interface {
	// Read reads the current frame into dst, returning false if no frame is
	// ready
	Read(dst *gocv.Mat) bool
	// Switch changes to another feed
	Switch(id string) error
}

// PresentFunc shows the frame with the overlay drawn on the surface after
// every tick that was not skipped
type PresentFunc func(frame gocv.Mat, e *Engine, res TickResult) error

// SwitchFeed requests a change of video feed.  The switch and the hard reset
// it causes are applied by the loop goroutine between ticks.  Only the latest
// request is kept if several arrive before the next tick.
func (e *Engine) SwitchFeed(id string) {
	for {
		select {
		case e.switchReq <- id:
			return
		default:
		}

		// drop the stale request
		select {
		case <-e.switchReq:
		default:
		}
	}
}

// Run drives the overlay, one tick per refresh interval, until the context is
// cancelled or present returns an error.  Cancellation is checked at the top
// of every tick so no tick starts after shutdown is requested.
func (e *Engine) Run(ctx context.Context, src FrameSource, refresh time.Duration,
	present PresentFunc) error {

	if refresh <= 0 {
		return fmt.Errorf("invalid refresh interval %v", refresh)
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	frame := gocv.NewMat()
	defer frame.Close()

	e.log.Info("overlay loop started", "refresh", refresh)

	for {
		select {
		case <-ctx.Done():
			e.log.Info("overlay loop stopped")
			return nil
		case <-ticker.C:
		}

		if ctx.Err() != nil {
			e.log.Info("overlay loop stopped")
			return nil
		}

		select {
		case id := <-e.switchReq:
			e.switchFeed(src, id)
		default:
		}

		if !src.Read(&frame) {
			e.skip()
			continue
		}

		res := e.Step(frame)

		if res.Skipped {
			continue
		}

		if err := present(frame, e, res); err != nil {
			if errors.Is(err, ErrStop) {
				e.log.Info("overlay loop stopped")
				return nil
			}
			return fmt.Errorf("error presenting overlay: %w", err)
		}
	}
}

// skip records a tick where no frame was available
func (e *Engine) skip() {
	e.recorder.Tick(TickResult{Skipped: true, Tracks: e.state.Tracks.Len()})
}

// switchFeed changes the source feed and resets the overlay
func (e *Engine) switchFeed(src FrameSource, id string) {

	if err := src.Switch(id); err != nil {
		e.log.Error("failed to switch feed", "feed", id, "error", err)
		return
	}

	e.log.Info("switched feed", "feed", id)
	e.Reset()
}

// With opens both inference engines, creates an overlay Engine and passes it
// to fn.  The Engine and engines are released when fn returns, errors or
// panics.
func With(ctx context.Context, p Params, openDet engine.OpenDetectorFunc,
	openPose engine.OpenPoseFunc, fn func(ctx context.Context, e *Engine) error,
	opts ...Option) (err error) {

	o := newOptions(opts)

	pair, err := engine.OpenPair(openDet, openPose, o.log)

	if err != nil {
		return err
	}

	e := New(pair, p, opts...)

	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error releasing overlay: %w", cerr)
		}
	}()

	return fn(ctx, e)
}

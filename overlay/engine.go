package overlay

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swdee/go-poseoverlay/engine"
	"github.com/swdee/go-poseoverlay/geometry"
	"github.com/swdee/go-poseoverlay/internal/clock"
	"github.com/swdee/go-poseoverlay/preprocess"
	"github.com/swdee/go-poseoverlay/render"
	"github.com/swdee/go-poseoverlay/tracker"
	"gocv.io/x/gocv"
)

// TickResult reports what happened during a single tick
type TickResult struct {
	// Skipped is set when no frame was available, nothing else ran
	Skipped bool
	// Detected is set when person detection ran this tick
	Detected bool
	// Posed is set when this tick was a pose tick
	Posed bool
	// Created is the number of new tracks created by detection
	Created int
	// PoseCalls is the number of crops handed to the pose estimator
	PoseCalls int
	// DegenerateCrops is the number of tracks skipped on a pose tick as their
	// crop was too small
	DegenerateCrops int
	// Landmarks are the poses drawn this tick in frame pixel coordinates
	Landmarks [][]geometry.Landmark
	// Evicted is the number of tracks evicted at the end of the tick
	Evicted int
	// Tracks is the number of live tracks after eviction
	Tracks int
}

// Recorder receives the outcome of every tick and inference call
type Recorder interface {
	engine.Observer
	// Tick is called at the end of every tick
	Tick(res TickResult)
	// Reset is called after every hard reset
	Reset()
}

// nopRecorder discards everything
type nopRecorder struct{}

func (nopRecorder) Inference(string, time.Duration, error) {}
func (nopRecorder) Tick(TickResult)                        {}
func (nopRecorder) Reset()                                 {}

// State is the mutable state owned by the overlay loop
type State struct {
	// Session identifies the current feed session, changed on every Reset
	Session string
	// Tracks is the track manager
	Tracks *tracker.Manager
	// LastDetect is the time detection last ran, zero if never
	LastDetect time.Time
	// LastPose is the time of the last pose tick, zero if never
	LastPose time.Time
	// Buffers are the per track crop images
	Buffers *preprocess.CropBuffers
	// Surface is the drawing layer
	Surface *render.Surface
}

// Option configures an Engine
type Option func(*options)

type options struct {
	clock    clock.Clock
	log      *slog.Logger
	recorder Recorder
}

// WithClock sets the time source, defaults to the real clock
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets the logger, defaults to slog.Default
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

func newOptions(opts []Option) options {

	o := options{
		clock:    clock.Real{},
		log:      slog.Default(),
		recorder: nopRecorder{},
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Engine is the tick driven tracking overlay.  Step and Reset must only be
// called from a single goroutine, the one running the loop.
type Engine struct {
	params   Params
	clock    clock.Clock
	baseLog  *slog.Logger
	log      *slog.Logger
	recorder Recorder
	pair     *engine.Pair
	detector *engine.DetectionAdapter
	pose     *engine.PoseAdapter
	state    State
	// switchReq holds a pending feed switch applied between ticks
	switchReq chan string
	closeOnce sync.Once
	closeErr  error
}

// New returns an overlay Engine running the given inference engines.  The
// Engine takes ownership of the pair and releases it on Close.
func New(pair *engine.Pair, p Params, opts ...Option) *Engine {

	o := newOptions(opts)

	e := &Engine{
		params:    p,
		clock:     o.clock,
		baseLog:   o.log,
		recorder:  o.recorder,
		pair:      pair,
		detector:  engine.NewDetectionAdapter(pair.Detector, p.Detection, o.log, o.recorder),
		pose:      engine.NewPoseAdapter(pair.Pose, p.MaxPoses, o.log, o.recorder),
		switchReq: make(chan string, 1),
		state: State{
			Tracks:  tracker.NewManager(p.Tracker),
			Buffers: preprocess.NewCropBuffers(),
			Surface: render.NewSurface(),
		},
	}

	e.state.Tracks.OnEvict(func(p *tracker.Person, reason tracker.EvictReason) {
		e.state.Buffers.Release(p.ID)
		e.log.Debug("track evicted", "id", p.ID, "reason", reason, "hits", p.Hits)
	})

	e.newSession()

	return e
}

// newSession assigns a new session ID
func (e *Engine) newSession() {
	e.state.Session = uuid.NewString()
	e.log = e.baseLog.With("session", e.state.Session)
}

// Params returns the overlay parameters
func (e *Engine) Params() Params {
	return e.params
}

// State returns the overlay state.  It must only be read from the loop
// goroutine.
func (e *Engine) State() *State {
	return &e.state
}

// Surface returns the drawing layer holding the overlay of the last tick
func (e *Engine) Surface() *render.Surface {
	return e.state.Surface
}

// Step advances the overlay by one tick against the current frame.  Within a
// tick detection runs first, then pose estimation, rendering and finally
// eviction of stale tracks.  An empty frame skips the tick without changing
// any state.
func (e *Engine) Step(frame gocv.Mat) TickResult {

	var res TickResult

	if frame.Empty() || frame.Cols() == 0 || frame.Rows() == 0 {
		res.Skipped = true
		res.Tracks = e.state.Tracks.Len()
		e.recorder.Tick(res)
		return res
	}

	now := e.clock.Now()
	width, height := frame.Cols(), frame.Rows()

	if e.state.Surface.Resize(width, height) {
		e.log.Info("overlay surface resized", "width", width, "height", height)
	}

	if e.due(e.state.LastDetect, e.params.DetectInterval, now) {
		before := e.state.Tracks.NextID()
		boxes := e.detector.Detect(frame)
		e.state.Tracks.Update(boxes, width, height, now)
		e.state.LastDetect = now

		res.Detected = true
		res.Created = int(e.state.Tracks.NextID() - before)
	}

	if e.due(e.state.LastPose, e.params.PoseInterval, now) {
		e.state.LastPose = now
		res.Posed = true
	}

	img := e.state.Surface.Mat()
	e.state.Surface.Clear()

	tracks := e.state.Tracks.Tracks()
	render.TrackBoxes(img, tracks, e.params.Style)

	if res.Posed {
		e.estimate(frame, tracks, &res)
		render.Skeletons(img, res.Landmarks, e.params.Style)
	}

	res.Evicted = len(e.state.Tracks.Evict(now))
	res.Tracks = e.state.Tracks.Len()

	e.recorder.Tick(res)

	return res
}

// due reports if an interval has elapsed since last, a zero last time means
// never run
func (e *Engine) due(last time.Time, interval time.Duration, now time.Time) bool {
	return last.IsZero() || now.Sub(last) >= interval
}

// estimate runs pose estimation on the padded crop of every track and maps
// the landmarks onto frame coordinates
func (e *Engine) estimate(frame gocv.Mat, tracks []*tracker.Person, res *TickResult) {

	width, height := frame.Cols(), frame.Rows()

	for _, p := range tracks {

		region := geometry.PadCrop(p.Rect, e.params.CropPadding, width, height)

		if region.Degenerate() {
			res.DegenerateCrops++
			continue
		}

		crop, err := e.state.Buffers.Materialize(frame, p.ID, region)

		if err != nil {
			e.log.Warn("failed to crop track", "id", p.ID, "error", err)
			continue
		}

		res.PoseCalls++

		for _, lms := range e.pose.Estimate(*crop) {
			res.Landmarks = append(res.Landmarks, region.LandmarksToFrame(lms))
		}
	}
}

// Reset performs a hard reset used when the video feed changes.  All tracks
// and crop buffers are dropped, the ID counter returns to its base and both
// throttle timers are cleared so the next tick detects immediately.
func (e *Engine) Reset() {

	dropped := e.state.Tracks.Len()

	e.state.Tracks.Reset()
	e.state.Buffers.Reset()
	e.state.LastDetect = time.Time{}
	e.state.LastPose = time.Time{}
	e.state.Surface.Clear()

	prev := e.state.Session
	e.newSession()

	e.log.Info("overlay reset", "previous_session", prev, "dropped_tracks", dropped)
	e.recorder.Reset()
}

// Close releases the crop buffers, surface and both inference engines.
// Release is best effort and Close is safe to call more than once.
func (e *Engine) Close() error {

	e.closeOnce.Do(func() {
		e.state.Tracks.Reset()
		e.state.Buffers.Close()
		e.state.Surface.Close()
		e.closeErr = e.pair.Close()
		e.log.Info("overlay closed")
	})

	return e.closeErr
}

package overlay

import (
	"time"

	"github.com/swdee/go-poseoverlay/engine"
	"github.com/swdee/go-poseoverlay/render"
	"github.com/swdee/go-poseoverlay/tracker"
)

// Params defines the scheduling and processing parameters of the overlay
type Params struct {
	// DetectInterval is the minimum time between person detection runs
	DetectInterval time.Duration
	// PoseInterval is the minimum time between pose estimation passes
	PoseInterval time.Duration
	// CropPadding is the number of pixels added around a track's bounding box
	// when cropping for pose estimation
	CropPadding int
	// MaxPoses is the maximum number of poses kept per crop
	MaxPoses int
	// Detection filters the detector results
	Detection engine.DetectionParams
	// Tracker are the track matching and eviction parameters
	Tracker tracker.Params
	// Style is the drawing style of the overlay
	Style render.Style
}

// DefaultParams returns the default overlay parameters:
// - Detect Interval: 250ms
// - Pose Interval: 120ms
// - Crop Padding: 20px
// - Max Poses: 2
// - Detection: person, 0.4
// - Tracker: IoU 0.3, TTL 600ms, ID base 0
func DefaultParams() Params {
	return Params{
		DetectInterval: 250 * time.Millisecond,
		PoseInterval:   120 * time.Millisecond,
		CropPadding:    20,
		MaxPoses:       2,
		Detection:      engine.DefaultDetectionParams(),
		Tracker:        tracker.DefaultParams(),
		Style:          render.DefaultStyle(),
	}
}

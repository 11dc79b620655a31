package engine

import (
	"log/slog"
	"time"

	"github.com/swdee/go-poseoverlay/geometry"
	"gocv.io/x/gocv"
)

// DetectionParams defines the filtering applied to detector results
type DetectionParams struct {
	// Category is the only detection class kept
	Category string
	// MinConfidence is the minimum detection score kept
	MinConfidence float32
}

// DefaultDetectionParams returns the default detection filter:
// - Category: person
// - Minimum Confidence: 0.4
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		Category:      "person",
		MinConfidence: 0.4,
	}
}

// DetectionAdapter invokes the person detector and contains its failures
type DetectionAdapter struct {
	det      Detector
	params   DetectionParams
	log      *slog.Logger
	observer Observer
}

// NewDetectionAdapter returns an adapter around the given detector.  A nil
// logger uses slog.Default and a nil observer discards inference outcomes.
func NewDetectionAdapter(det Detector, p DetectionParams, log *slog.Logger,
	observer Observer) *DetectionAdapter {

	if log == nil {
		log = slog.Default()
	}

	if observer == nil {
		observer = nopObserver{}
	}

	return &DetectionAdapter{
		det:      det,
		params:   p,
		log:      log.With("engine", NameDetector),
		observer: observer,
	}
}

// Detect runs the detector on the frame and returns the bounding boxes of
// detections matching the category.  Engine errors and panics are logged and
// result in no detections for this cycle.
func (a *DetectionAdapter) Detect(frame gocv.Mat) []geometry.Rect {

	var dets []Detection

	start := time.Now()

	err := guard(func() error {
		var err error
		dets, err = a.det.Detect(frame)
		return err
	})

	a.observer.Inference(NameDetector, time.Since(start), err)

	if err != nil {
		a.log.Warn("detection failed", "error", err)
		return nil
	}

	return a.filter(dets)
}

// filter keeps detections of the configured category and confidence
func (a *DetectionAdapter) filter(dets []Detection) []geometry.Rect {

	boxes := make([]geometry.Rect, 0, len(dets))

	for _, det := range dets {
		if det.Category != a.params.Category {
			continue
		}

		if det.Confidence < a.params.MinConfidence {
			continue
		}

		if det.Box.Width <= 0 || det.Box.Height <= 0 {
			continue
		}

		boxes = append(boxes, det.Box)
	}

	return boxes
}

// PoseAdapter invokes the pose estimator on cropped images and contains its
// failures
type PoseAdapter struct {
	est      PoseEstimator
	maxPoses int
	log      *slog.Logger
	observer Observer
}

// NewPoseAdapter returns an adapter around the given pose estimator keeping
// at most maxPoses poses per crop, zero or less keeps all poses
func NewPoseAdapter(est PoseEstimator, maxPoses int, log *slog.Logger,
	observer Observer) *PoseAdapter {

	if log == nil {
		log = slog.Default()
	}

	if observer == nil {
		observer = nopObserver{}
	}

	return &PoseAdapter{
		est:      est,
		maxPoses: maxPoses,
		log:      log.With("engine", NamePose),
		observer: observer,
	}
}

// Estimate runs the pose estimator on the crop and returns the landmark sets
// normalised within the crop.  Engine errors and panics are logged and
// result in no poses for this cycle.
func (a *PoseAdapter) Estimate(crop gocv.Mat) [][]geometry.Landmark {

	var poses []Pose

	start := time.Now()

	err := guard(func() error {
		var err error
		poses, err = a.est.Estimate(crop)
		return err
	})

	a.observer.Inference(NamePose, time.Since(start), err)

	if err != nil {
		a.log.Warn("pose estimation failed", "error", err)
		return nil
	}

	out := make([][]geometry.Landmark, 0, len(poses))

	for _, pose := range poses {
		if len(pose.Landmarks) == 0 {
			continue
		}

		if a.maxPoses > 0 && len(out) >= a.maxPoses {
			break
		}

		out = append(out, pose.Landmarks)
	}

	return out
}

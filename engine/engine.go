package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/swdee/go-poseoverlay/geometry"
	"gocv.io/x/gocv"
)

const (
	// NameDetector identifies the person detector in logs and metrics
	NameDetector = "detector"
	// NamePose identifies the pose estimator in logs and metrics
	NamePose = "pose"
)

// ErrEnginePanic is wrapped by the error reported when an engine panics
// during inference
var ErrEnginePanic = errors.New("inference engine panicked")

// Detection defines the attributes of a single object detected
type Detection struct {
	// Box is the bounding box in frame pixel space
	Box geometry.Rect
	// Category is the class label of the object detected, eg: "person"
	Category string
	// Confidence is the detection score
	Confidence float32
}

// Pose is a single pose estimated within a crop.  Landmarks are normalised to
// [0,1] within the crop image the pose was estimated on.
type Pose struct {
	Landmarks []geometry.Landmark
}

// Detector is a black box object detection engine run on full frames
type Detector interface {
	// Detect runs object detection on the frame
	Detect(frame gocv.Mat) ([]Detection, error)
	// Close releases the engine and any model resources it holds
	Close() error
}

// PoseEstimator is a black box pose estimation engine run on cropped images
type PoseEstimator interface {
	// Estimate returns the poses found within the crop
	Estimate(crop gocv.Mat) ([]Pose, error)
	// Close releases the engine and any model resources it holds
	Close() error
}

// Observer receives the outcome of every inference call.  It is used to
// record metrics.
type Observer interface {
	Inference(engine string, took time.Duration, err error)
}

// nopObserver discards inference outcomes
type nopObserver struct{}

func (nopObserver) Inference(string, time.Duration, error) {}

// guard runs fn converting a panic into an error so a single bad frame can
// not take down the overlay loop
func guard(fn func() error) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEnginePanic, r)
		}
	}()

	return fn()
}

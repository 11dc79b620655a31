package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// OpenDetectorFunc acquires a detector
type OpenDetectorFunc func() (Detector, error)

// OpenPoseFunc acquires a pose estimator
type OpenPoseFunc func() (PoseEstimator, error)

// Pair holds both inference engines used by the overlay so they are acquired
// and released together
type Pair struct {
	Detector Detector
	Pose     PoseEstimator
	log      *slog.Logger
	close    sync.Once
	closeErr error
}

// OpenPair acquires the detector then the pose estimator.  If acquiring the
// pose estimator fails the detector is released before returning.
func OpenPair(openDet OpenDetectorFunc, openPose OpenPoseFunc,
	log *slog.Logger) (*Pair, error) {

	if log == nil {
		log = slog.Default()
	}

	det, err := openDet()

	if err != nil {
		return nil, fmt.Errorf("error opening detector: %w", err)
	}

	pose, err := openPose()

	if err != nil {
		if cerr := det.Close(); cerr != nil {
			log.Error("failed to release detector", "engine", NameDetector, "error", cerr)
		}
		return nil, fmt.Errorf("error opening pose estimator: %w", err)
	}

	return &Pair{
		Detector: det,
		Pose:     pose,
		log:      log,
	}, nil
}

// Close releases both engines.  Release is best effort, a failure releasing
// one engine is logged and does not prevent the other being released.  The
// joined errors are returned.  Close is safe to call more than once.
func (p *Pair) Close() error {

	p.close.Do(func() {

		var errs []error

		if err := guard(p.Detector.Close); err != nil {
			p.log.Error("failed to release engine", "engine", NameDetector, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", NameDetector, err))
		}

		if err := guard(p.Pose.Close); err != nil {
			p.log.Error("failed to release engine", "engine", NamePose, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", NamePose, err))
		}

		p.closeErr = errors.Join(errs...)
	})

	return p.closeErr
}

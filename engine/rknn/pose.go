package rknn

import (
	"fmt"

	"github.com/swdee/go-poseoverlay/engine"
	"github.com/swdee/go-poseoverlay/geometry"
	"github.com/swdee/go-rknnlite"
	"github.com/swdee/go-rknnlite/postprocess"
	"gocv.io/x/gocv"
)

var _ engine.PoseEstimator = (*PoseEstimator)(nil)

// PoseEstimator runs YOLOv8-pose estimation on the Rockchip NPU
type PoseEstimator struct {
	// rt is the RKNN runtime the model is loaded in
	rt *rknnlite.Runtime
	// process is the YOLOv8-pose post processor
	process *postprocess.YOLOv8Pose
	// letterbox handles scaling crops to the input tensor size
	letterbox *letterbox
	// rgbImg holds the color converted crop
	rgbImg gocv.Mat
}

// NewPoseEstimator loads the YOLOv8-pose model and returns a PoseEstimator
func NewPoseEstimator(opts Options) (*PoseEstimator, error) {

	rt, err := rknnlite.NewRuntime(opts.ModelFile, opts.Core)

	if err != nil {
		return nil, fmt.Errorf("error initializing RKNN runtime: %w", err)
	}

	rt.SetWantFloat(false)

	lb, err := newLetterbox(rt)

	if err != nil {
		rt.Close()
		return nil, err
	}

	return &PoseEstimator{
		rt:        rt,
		process:   postprocess.NewYOLOv8Pose(postprocess.YOLOv8PoseCOCOParams()),
		letterbox: lb,
		rgbImg:    gocv.NewMat(),
	}, nil
}

// Estimate runs pose estimation on a BGR crop.  Keypoints are returned
// normalised to the crop size with the keypoint score as visibility.
func (p *PoseEstimator) Estimate(crop gocv.Mat) ([]engine.Pose, error) {

	gocv.CvtColor(crop, &p.rgbImg, gocv.ColorBGRToRGB)

	resizer, input := p.letterbox.resize(p.rgbImg)

	outputs, err := p.rt.Inference([]gocv.Mat{input})

	if err != nil {
		return nil, fmt.Errorf("runtime inferencing failed with error: %w", err)
	}

	detectObjs := p.process.DetectObjects(outputs, resizer)
	keyPoints := p.process.GetPoseEstimation(detectObjs)

	if err := outputs.Free(); err != nil {
		return nil, fmt.Errorf("error freeing outputs: %w", err)
	}

	region := geometry.CropRegion{Width: crop.Cols(), Height: crop.Rows()}
	poses := make([]engine.Pose, 0, len(keyPoints))

	for _, kps := range keyPoints {

		lms := make([]geometry.Landmark, len(kps))

		for i, kp := range kps {
			x, y := region.Normalize(float32(kp.X), float32(kp.Y))
			lms[i] = geometry.Landmark{X: x, Y: y, Visibility: kp.Score}
		}

		poses = append(poses, engine.Pose{Landmarks: lms})
	}

	return poses, nil
}

// Close releases the runtime and image buffers
func (p *PoseEstimator) Close() error {
	p.letterbox.close()
	p.rgbImg.Close()
	return p.rt.Close()
}

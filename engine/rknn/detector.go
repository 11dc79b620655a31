package rknn

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-poseoverlay/engine"
	"github.com/swdee/go-poseoverlay/geometry"
	"github.com/swdee/go-rknnlite"
	"github.com/swdee/go-rknnlite/postprocess"
	"github.com/swdee/go-rknnlite/preprocess"
	"gocv.io/x/gocv"
)

// letterBoxColor is the padding color used when letterbox resizing frames
// to the model input tensor size
var letterBoxColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// Options defines the model configuration for an RKNN engine
type Options struct {
	// ModelFile is the RKNN compiled model file
	ModelFile string
	// LabelFile is a text file containing the model labels one per line.
	// Only used by the detector.
	LabelFile string
	// Core is the NPU core the model is pinned to
	Core rknnlite.CoreMask
}

var _ engine.Detector = (*Detector)(nil)

// Detector runs YOLOv8 object detection on the Rockchip NPU
type Detector struct {
	// rt is the RKNN runtime the model is loaded in
	rt *rknnlite.Runtime
	// process is the YOLOv8 post processor
	process *postprocess.YOLOv8
	// labels are the class names the model was trained on
	labels []string
	// letterbox handles scaling frames to the input tensor size
	letterbox *letterbox
	// rgbImg holds the color converted frame
	rgbImg gocv.Mat
}

// NewDetector loads the YOLOv8 model and labels and returns a Detector
func NewDetector(opts Options) (*Detector, error) {

	labels, err := rknnlite.LoadLabels(opts.LabelFile)

	if err != nil {
		return nil, fmt.Errorf("error loading model labels: %w", err)
	}

	rt, err := rknnlite.NewRuntime(opts.ModelFile, opts.Core)

	if err != nil {
		return nil, fmt.Errorf("error initializing RKNN runtime: %w", err)
	}

	// leave output tensors as int8 for the post processor
	rt.SetWantFloat(false)

	lb, err := newLetterbox(rt)

	if err != nil {
		rt.Close()
		return nil, err
	}

	return &Detector{
		rt:        rt,
		process:   postprocess.NewYOLOv8(postprocess.YOLOv8COCOParams()),
		labels:    labels,
		letterbox: lb,
		rgbImg:    gocv.NewMat(),
	}, nil
}

// Detect runs object detection on a BGR frame and returns the detections in
// frame pixel coordinates
func (d *Detector) Detect(frame gocv.Mat) ([]engine.Detection, error) {

	gocv.CvtColor(frame, &d.rgbImg, gocv.ColorBGRToRGB)

	resizer, input := d.letterbox.resize(d.rgbImg)

	outputs, err := d.rt.Inference([]gocv.Mat{input})

	if err != nil {
		return nil, fmt.Errorf("runtime inferencing failed with error: %w", err)
	}

	detectResults := d.process.DetectObjects(outputs, resizer).GetDetectResults()

	// free outputs allocated in C memory after you have finished post processing
	if err := outputs.Free(); err != nil {
		return nil, fmt.Errorf("error freeing outputs: %w", err)
	}

	dets := make([]engine.Detection, 0, len(detectResults))

	for _, res := range detectResults {
		dets = append(dets, engine.Detection{
			Box: geometry.RectFromTlbr(geometry.Tlbr{
				float32(res.Box.Left), float32(res.Box.Top),
				float32(res.Box.Right), float32(res.Box.Bottom),
			}),
			Category:   d.label(res.Class),
			Confidence: res.Probability,
		})
	}

	return dets, nil
}

// label returns the class name for the class index
func (d *Detector) label(class int) string {
	if class < 0 || class >= len(d.labels) {
		return fmt.Sprintf("class%d", class)
	}
	return d.labels[class]
}

// Close releases the runtime and image buffers
func (d *Detector) Close() error {
	d.letterbox.close()
	d.rgbImg.Close()
	return d.rt.Close()
}

// letterbox scales images of any size to the model input tensor, keeping a
// resizer per source size so repeated frames reuse it
type letterbox struct {
	// tensorWidth and tensorHeight are the model input dimensions
	tensorWidth  int
	tensorHeight int
	// resizer is the resizer for the last source size seen
	resizer *preprocess.Resizer
	// src is the source size the resizer was created for
	src image.Point
	// dest holds the resized image
	dest gocv.Mat
}

// newLetterbox queries the runtime's input tensor size
func newLetterbox(rt *rknnlite.Runtime) (*letterbox, error) {

	attrs := rt.InputAttrs()

	if len(attrs) == 0 {
		return nil, fmt.Errorf("model has no input tensors")
	}

	return &letterbox{
		tensorWidth:  int(attrs[0].Dims[1]),
		tensorHeight: int(attrs[0].Dims[2]),
		dest: gocv.NewMatWithSize(int(attrs[0].Dims[2]), int(attrs[0].Dims[1]),
			gocv.MatTypeCV8UC3),
	}, nil
}

// resize letterboxes the image into the input tensor size
func (l *letterbox) resize(img gocv.Mat) (*preprocess.Resizer, gocv.Mat) {

	size := image.Pt(img.Cols(), img.Rows())

	if l.resizer == nil || l.src != size {
		if l.resizer != nil {
			l.resizer.Close()
		}

		l.resizer = preprocess.NewResizer(size.X, size.Y, l.tensorWidth, l.tensorHeight)
		l.src = size
	}

	l.resizer.LetterBoxResize(img, &l.dest, letterBoxColor)

	return l.resizer, l.dest
}

// close frees the resizer and buffer
func (l *letterbox) close() {
	if l.resizer != nil {
		l.resizer.Close()
	}
	l.dest.Close()
}

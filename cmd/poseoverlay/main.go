/*
poseoverlay runs person detection, tracking and pose estimation on a live video
feed and shows the overlay in a window.

Keys: n switch to the next feed, r reset tracking, q or ESC quit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/swdee/go-poseoverlay/config"
	"github.com/swdee/go-poseoverlay/engine"
	"github.com/swdee/go-poseoverlay/engine/rknn"
	"github.com/swdee/go-poseoverlay/metrics"
	"github.com/swdee/go-poseoverlay/overlay"
	"github.com/swdee/go-poseoverlay/source"
	"github.com/swdee/go-rknnlite"
	"gocv.io/x/gocv"
)

// coreMasks maps configured core names to NPU core masks
var coreMasks = map[string]rknnlite.CoreMask{
	"auto":  rknnlite.NPUCoreAuto,
	"0":     rknnlite.NPUCore0,
	"1":     rknnlite.NPUCore1,
	"2":     rknnlite.NPUCore2,
	"0_1":   rknnlite.NPUCore01,
	"0_1_2": rknnlite.NPUCore012,
}

// newLogger creates the structured logger described by the configuration
func newLogger(cfg *config.Config) (*slog.Logger, error) {

	level, err := cfg.LogLevel()

	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}

// window presents the overlay and handles key presses
type window struct {
	win     *gocv.Window
	display gocv.Mat
	capture *source.Capture
}

// present composites the overlay onto the frame and shows it
func (w *window) present(frame gocv.Mat, e *overlay.Engine, res overlay.TickResult) error {

	if err := e.Surface().Composite(frame, &w.display); err != nil {
		return err
	}

	w.win.IMShow(w.display)

	switch key := w.win.WaitKey(1); key {
	case 'q', 27:
		return overlay.ErrStop
	case 'n':
		e.SwitchFeed(w.capture.Next())
	case 'r':
		e.SwitchFeed(w.capture.Active().ID)
	}

	if !w.win.IsOpen() {
		return overlay.ErrStop
	}

	return nil
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	configFile := flag.String("c", "", "YAML configuration file, defaults are used if not set")
	feedID := flag.String("f", "", "ID of the feed to start on, defaults to the first configured feed")
	vidURI := flag.String("v", "", "Camera index, video file or stream URL to run on instead of the configured feeds")
	metricsAddr := flag.String("a", "", "Address to serve Prometheus metrics on, format address:port")

	flag.Parse()

	cfg := config.Default()

	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)

		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	if *vidURI != "" {
		cfg.Feeds = []source.Feed{{ID: "cli", URI: *vidURI}}
		*feedID = ""
	}

	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}

	logger, err := newLogger(cfg)

	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}

	if err := run(cfg, *feedID, logger); err != nil {
		log.Fatalf("Error running overlay: %v", err)
	}
}

// run opens the feed, engines and window and drives the overlay until quit
func run(cfg *config.Config, feedID string, logger *slog.Logger) error {

	// set cpu affinity to run on specific CPU cores
	err := rknnlite.SetCPUAffinity(rknnlite.RK3588FastCores)

	if err != nil {
		logger.Warn("failed to set CPU affinity", "error", err)
	}

	params, err := cfg.OverlayParams()

	if err != nil {
		return fmt.Errorf("error in config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()

	if cfg.Metrics.Listen != "" {
		go func() {
			logger.Info("serving metrics", "addr", cfg.Metrics.Listen)

			if err := rec.Serve(ctx, cfg.Metrics.Listen); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	capture, err := source.NewCapture(cfg.Feeds, feedID, nil, logger)

	if err != nil {
		return fmt.Errorf("error opening video: %w", err)
	}

	defer capture.Close()

	detCfg := cfg.Models.PersonDetector
	poseCfg := cfg.Models.PoseEstimator

	openDet := func() (engine.Detector, error) {
		det, err := rknn.NewDetector(rknn.Options{
			ModelFile: detCfg.ModelPath,
			LabelFile: detCfg.LabelsPath,
			Core:      coreMasks[detCfg.Core],
		})
		if err != nil {
			return nil, err
		}
		return det, nil
	}

	openPose := func() (engine.PoseEstimator, error) {
		est, err := rknn.NewPoseEstimator(rknn.Options{
			ModelFile: poseCfg.ModelPath,
			Core:      coreMasks[poseCfg.Core],
		})
		if err != nil {
			return nil, err
		}
		return est, nil
	}

	w := &window{
		win:     gocv.NewWindow("Pose Overlay"),
		display: gocv.NewMat(),
		capture: capture,
	}

	defer w.win.Close()
	defer w.display.Close()

	err = overlay.With(ctx, params, openDet, openPose,
		func(ctx context.Context, e *overlay.Engine) error {
			return e.Run(ctx, capture, cfg.RefreshInterval(), w.present)
		},
		overlay.WithLogger(logger), overlay.WithRecorder(rec),
	)

	if err != nil {
		return err
	}

	log.Printf("Ticks=%d, Detections=%d, Pose Calls=%d, Tracks Created=%d\n",
		rec.Ticks.Load(), rec.DetectRuns.Load(), rec.PoseCalls.Load(),
		rec.TracksCreated.Load())

	return nil
}

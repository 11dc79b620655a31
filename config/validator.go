package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/swdee/go-poseoverlay/engine"
	"github.com/swdee/go-poseoverlay/overlay"
	"github.com/swdee/go-poseoverlay/render"
	"github.com/swdee/go-poseoverlay/tracker"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid value")

// cores are the accepted NPU core names
var cores = map[string]bool{
	"auto": true, "0": true, "1": true, "2": true, "0_1": true, "0_1_2": true,
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {

	o := cfg.Overlay

	if o.IoUThreshold < 0 || o.IoUThreshold >= 1 {
		return fmt.Errorf("%w: overlay.iou_threshold must be in [0,1), got %v",
			ErrInvalid, o.IoUThreshold)
	}
	if o.TrackTTL <= 0 {
		return fmt.Errorf("%w: overlay.track_ttl must be > 0", ErrInvalid)
	}
	if o.DetectInterval <= 0 {
		return fmt.Errorf("%w: overlay.detect_interval must be > 0", ErrInvalid)
	}
	if o.PoseInterval <= 0 {
		return fmt.Errorf("%w: overlay.pose_interval must be > 0", ErrInvalid)
	}
	if o.CropPadding < 0 {
		return fmt.Errorf("%w: overlay.crop_padding must be >= 0", ErrInvalid)
	}
	if o.MaxPoses <= 0 {
		return fmt.Errorf("%w: overlay.max_poses must be > 0", ErrInvalid)
	}
	if o.RefreshHz <= 0 || o.RefreshHz > 240 {
		return fmt.Errorf("%w: overlay.refresh_hz must be in (0,240], got %v",
			ErrInvalid, o.RefreshHz)
	}

	det := cfg.Models.PersonDetector

	if det.ModelPath == "" {
		return fmt.Errorf("%w: models.person_detector.model_path is required", ErrInvalid)
	}
	if det.LabelsPath == "" {
		return fmt.Errorf("%w: models.person_detector.labels_path is required", ErrInvalid)
	}
	if det.Category == "" {
		det.Category = "person"
	}
	if det.Confidence < 0 || det.Confidence > 1 {
		return fmt.Errorf("%w: models.person_detector.confidence must be in [0,1]", ErrInvalid)
	}
	if cfg.Models.PoseEstimator.ModelPath == "" {
		return fmt.Errorf("%w: models.pose_estimator.model_path is required", ErrInvalid)
	}

	for name, core := range map[string]*string{
		"person_detector": &det.Core,
		"pose_estimator":  &cfg.Models.PoseEstimator.Core,
	} {
		if *core == "" {
			*core = "auto"
		}
		if !cores[*core] {
			return fmt.Errorf("%w: models.%s.core unknown core '%s'", ErrInvalid, name, *core)
		}
	}

	cfg.Models.PersonDetector = det

	if _, err := cfg.RenderStyle(); err != nil {
		return fmt.Errorf("%w: style: %v", ErrInvalid, err)
	}

	ids := make(map[string]bool, len(cfg.Feeds))

	for i, feed := range cfg.Feeds {
		if feed.ID == "" || feed.URI == "" {
			return fmt.Errorf("%w: feeds[%d] requires id and uri", ErrInvalid, i)
		}
		if ids[feed.ID] {
			return fmt.Errorf("%w: duplicate feed id '%s'", ErrInvalid, feed.ID)
		}
		ids[feed.ID] = true
	}

	if _, err := cfg.LogLevel(); err != nil {
		return err
	}

	switch cfg.Log.Format {
	case "":
		cfg.Log.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be 'text' or 'json'", ErrInvalid)
	}

	return nil
}

// RenderStyle returns the drawing style
func (c *Config) RenderStyle() (render.Style, error) {

	s := c.Style
	style := render.DefaultStyle()

	var err error

	if style.BoxColor, err = render.ParseColor(s.BoxColor); err != nil {
		return style, fmt.Errorf("box_color: %w", err)
	}
	if style.ConnectorColor, err = render.ParseColor(s.ConnectorColor); err != nil {
		return style, fmt.Errorf("connector_color: %w", err)
	}
	if style.LandmarkColor, err = render.ParseColor(s.LandmarkColor); err != nil {
		return style, fmt.Errorf("landmark_color: %w", err)
	}

	if s.BoxThickness <= 0 || s.ConnectorWidth <= 0 || s.LandmarkRadius <= 0 {
		return style, fmt.Errorf("line sizes must be > 0")
	}

	if s.MinVisibility < 0 || s.MinVisibility > 1 {
		return style, fmt.Errorf("min_visibility must be in [0,1]")
	}

	style.BoxThickness = s.BoxThickness
	style.Font.Color = style.BoxColor
	style.ConnectorWidth = s.ConnectorWidth
	style.LandmarkRadius = s.LandmarkRadius
	style.MinVisibility = s.MinVisibility

	return style, nil
}

// OverlayParams returns the overlay engine parameters
func (c *Config) OverlayParams() (overlay.Params, error) {

	style, err := c.RenderStyle()

	if err != nil {
		return overlay.Params{}, err
	}

	o := c.Overlay
	det := c.Models.PersonDetector

	return overlay.Params{
		DetectInterval: o.DetectInterval,
		PoseInterval:   o.PoseInterval,
		CropPadding:    o.CropPadding,
		MaxPoses:       o.MaxPoses,
		Detection: engine.DetectionParams{
			Category:      det.Category,
			MinConfidence: det.Confidence,
		},
		Tracker: tracker.Params{
			IoUThreshold: o.IoUThreshold,
			TTL:          o.TrackTTL,
			IDBase:       o.IDBase,
		},
		Style: style,
	}, nil
}

// LogLevel returns the slog level named in the configuration
func (c *Config) LogLevel() (slog.Level, error) {

	var level slog.Level

	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}

	return level, nil
}

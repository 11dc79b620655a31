package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-poseoverlay/overlay"
	"github.com/swdee/go-poseoverlay/render"
	"github.com/swdee/go-poseoverlay/source"
)

func TestDefaultMatchesOverlayDefaults(t *testing.T) {

	cfg := Default()
	require.NoError(t, Validate(cfg))

	params, err := cfg.OverlayParams()
	require.NoError(t, err)

	if diff := cmp.Diff(overlay.DefaultParams(), params); diff != "" {
		t.Errorf("OverlayParams() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, time.Second/60, cfg.RefreshInterval())
}

func TestLoad(t *testing.T) {

	data := `
overlay:
  detect_interval: 500ms
  track_ttl: 1s
  id_base: 100
  refresh_hz: 30
models:
  person_detector:
    model_path: /models/yolov8n.rknn
    labels_path: /models/coco.txt
    confidence: 0.5
    core: "2"
  pose_estimator:
    model_path: /models/yolov8n-pose.rknn
style:
  box_color: orange
  min_visibility: 0.5
feeds:
  - id: door
    uri: rtsp://10.0.0.9/live
  - id: desk
    uri: "0"
metrics:
  listen: ":9090"
log:
  level: debug
  format: json
`

	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Overlay.DetectInterval)
	assert.Equal(t, time.Second, cfg.Overlay.TrackTTL)
	// unset values keep their defaults
	assert.Equal(t, 120*time.Millisecond, cfg.Overlay.PoseInterval)
	assert.Equal(t, 20, cfg.Overlay.CropPadding)
	assert.Equal(t, "person", cfg.Models.PersonDetector.Category)
	assert.Equal(t, "1", cfg.Models.PoseEstimator.Core)

	assert.Equal(t, []source.Feed{
		{ID: "door", URI: "rtsp://10.0.0.9/live"},
		{ID: "desk", URI: "0"},
	}, cfg.Feeds)

	assert.Equal(t, ":9090", cfg.Metrics.Listen)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	params, err := cfg.OverlayParams()
	require.NoError(t, err)

	assert.Equal(t, uint64(100), params.Tracker.IDBase)
	assert.Equal(t, float32(0.5), params.Detection.MinConfidence)
	assert.Equal(t, float32(0.5), params.Style.MinVisibility)
	assert.Equal(t, params.Style.BoxColor, params.Style.Font.Color)
	assert.NotEqual(t, render.Magenta, params.Style.BoxColor)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseKeepsDefaultFeed(t *testing.T) {

	cfg, err := Parse([]byte("overlay:\n  max_poses: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, Default().Feeds, cfg.Feeds)
	assert.Equal(t, 1, cfg.Overlay.MaxPoses)
}

func TestValidateRejects(t *testing.T) {

	tests := []struct {
		name string
		yaml string
	}{
		{"iou threshold", "overlay:\n  iou_threshold: 1.5\n"},
		{"ttl", "overlay:\n  track_ttl: 0s\n"},
		{"detect interval", "overlay:\n  detect_interval: -1s\n"},
		{"max poses", "overlay:\n  max_poses: 0\n"},
		{"refresh", "overlay:\n  refresh_hz: 0\n"},
		{"crop padding", "overlay:\n  crop_padding: -5\n"},
		{"core", "models:\n  pose_estimator:\n    core: \"7\"\n"},
		{"confidence", "models:\n  person_detector:\n    confidence: 2\n"},
		{"color", "style:\n  box_color: \"#12\"\n"},
		{"thickness", "style:\n  box_thickness: 0\n"},
		{"feed", "feeds:\n  - id: a\n"},
		{"duplicate feed", "feeds:\n  - {id: a, uri: \"0\"}\n  - {id: a, uri: \"1\"}\n"},
		{"log level", "log:\n  level: loud\n"},
		{"log format", "log:\n  format: xml\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("overlay: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

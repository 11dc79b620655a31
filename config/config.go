package config

import (
	"fmt"
	"os"
	"time"

	"github.com/swdee/go-poseoverlay/source"
	"gopkg.in/yaml.v3"
)

// Config represents the complete overlay configuration
type Config struct {
	Overlay OverlayConfig `yaml:"overlay"`
	Models  ModelsConfig  `yaml:"models"`
	Style   StyleConfig   `yaml:"style"`
	Feeds   []source.Feed `yaml:"feeds"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// OverlayConfig contains tracking and scheduling settings
type OverlayConfig struct {
	IoUThreshold   float32       `yaml:"iou_threshold"`   // exclusive match threshold
	TrackTTL       time.Duration `yaml:"track_ttl"`       // eg: 600ms
	DetectInterval time.Duration `yaml:"detect_interval"` // eg: 250ms
	PoseInterval   time.Duration `yaml:"pose_interval"`   // eg: 120ms
	CropPadding    int           `yaml:"crop_padding"`    // pixels
	MaxPoses       int           `yaml:"max_poses"`       // poses kept per crop
	IDBase         uint64        `yaml:"id_base"`         // first track ID
	RefreshHz      float64       `yaml:"refresh_hz"`      // presentation refresh rate
}

// ModelsConfig contains the inference model settings
type ModelsConfig struct {
	PersonDetector ModelConfig `yaml:"person_detector"`
	PoseEstimator  ModelConfig `yaml:"pose_estimator"`
}

// ModelConfig defines a single model configuration
type ModelConfig struct {
	ModelPath  string  `yaml:"model_path"`
	LabelsPath string  `yaml:"labels_path"` // detector only
	Category   string  `yaml:"category"`    // detector only, eg: person
	Confidence float32 `yaml:"confidence"`  // detector minimum score
	Core       string  `yaml:"core"`        // auto, 0, 1, 2, 0_1, 0_1_2
}

// StyleConfig contains the drawing style, colors are names or #rrggbb
type StyleConfig struct {
	BoxColor       string  `yaml:"box_color"`
	BoxThickness   int     `yaml:"box_thickness"`
	ConnectorColor string  `yaml:"connector_color"`
	ConnectorWidth int     `yaml:"connector_width"`
	LandmarkColor  string  `yaml:"landmark_color"`
	LandmarkRadius int     `yaml:"landmark_radius"`
	MinVisibility  float32 `yaml:"min_visibility"`
}

// MetricsConfig contains the prometheus endpoint settings
type MetricsConfig struct {
	Listen string `yaml:"listen"` // eg: :9090, empty disables
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Overlay: OverlayConfig{
			IoUThreshold:   0.3,
			TrackTTL:       600 * time.Millisecond,
			DetectInterval: 250 * time.Millisecond,
			PoseInterval:   120 * time.Millisecond,
			CropPadding:    20,
			MaxPoses:       2,
			IDBase:         0,
			RefreshHz:      60,
		},
		Models: ModelsConfig{
			PersonDetector: ModelConfig{
				ModelPath:  "../data/yolov8s-640-640-rk3588.rknn",
				LabelsPath: "../data/coco_80_labels_list.txt",
				Category:   "person",
				Confidence: 0.4,
				Core:       "0",
			},
			PoseEstimator: ModelConfig{
				ModelPath: "../data/yolov8n-pose-640-640-rk3588.rknn",
				Core:      "1",
			},
		},
		Style: StyleConfig{
			BoxColor:       "#ff0055",
			BoxThickness:   2,
			ConnectorColor: "#00ffcc",
			ConnectorWidth: 2,
			LandmarkColor:  "white",
			LandmarkRadius: 2,
			MinVisibility:  0,
		},
		Feeds: []source.Feed{
			{ID: "camera", URI: "0"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a YAML configuration file.  Settings not present in
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses YAML configuration data over the defaults and validates it
func Parse(data []byte) (*Config, error) {

	cfg := Default()

	// a feeds list in the file replaces the default feed
	cfg.Feeds = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = Default().Feeds
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// RefreshInterval returns the time between overlay ticks
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Overlay.RefreshHz)
}

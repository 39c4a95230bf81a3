// Package config loads and validates the LensSafe configuration.
//
// Configuration comes from three layers: built-in defaults, an optional
// JSON config file, and LENSSAFE_* environment overrides. Absent keys
// fall back to defaults; present-but-invalid values are rejected at load
// time, never clamped.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix for environment overrides, e.g.
// LENSSAFE_DETECTION_EYE_RUB_THRESHOLD.
const envPrefix = "lenssafe"

// Config is the root configuration.
type Config struct {
	Camera    CameraConfig    `json:"camera"`
	Detection DetectionConfig `json:"detection"`
	Alert     AlertConfig     `json:"alert"`
	Display   DisplayConfig   `json:"display"`
	Server    ServerConfig    `json:"server"`
}

// CameraConfig selects and shapes the capture device.
type CameraConfig struct {
	Source int `json:"source" split_words:"true"`
	Width  int `json:"width" split_words:"true"`
	Height int `json:"height" split_words:"true"`
	FPS    int `json:"fps"`
}

// DetectionConfig holds the gesture-detection policy. The thresholds are
// normalized frame units and are consumed verbatim by the monitor core.
type DetectionConfig struct {
	EyeRubThreshold            float64 `json:"eye_rub_threshold" split_words:"true"`
	DepthThreshold             float64 `json:"depth_threshold" split_words:"true"`
	MotionThreshold            float64 `json:"motion_threshold" split_words:"true"`
	MotionHistoryFrames        int     `json:"motion_history_frames" split_words:"true"`
	ConsecutiveFramesThreshold int     `json:"consecutive_frames_threshold" split_words:"true"`
	MinDetectionConfidence     float64 `json:"min_detection_confidence" split_words:"true"`
	MinTrackingConfidence      float64 `json:"min_tracking_confidence" split_words:"true"`
}

// AlertConfig controls alert dispatch and the sinks.
type AlertConfig struct {
	SoundEnabled         bool    `json:"sound_enabled" split_words:"true"`
	AlertCooldownSeconds float64 `json:"alert_cooldown_seconds" split_words:"true"`
	// Command, when set, is run on every dispatched alert with the event
	// JSON on stdin.
	Command          string `json:"command" split_words:"true"`
	CommandTimeoutMs int    `json:"command_timeout_ms" split_words:"true"`
}

// DisplayConfig controls the status overlay drawn on streamed frames.
type DisplayConfig struct {
	ShowOverlay bool `json:"show_overlay" split_words:"true"`
	ShowFPS     bool `json:"show_fps" split_words:"true"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			Source: 0,
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detection: DetectionConfig{
			EyeRubThreshold:            0.15,
			DepthThreshold:             0.08,
			MotionThreshold:            0.004,
			MotionHistoryFrames:        5,
			ConsecutiveFramesThreshold: 2,
			MinDetectionConfidence:     0.5,
			MinTrackingConfidence:      0.5,
		},
		Alert: AlertConfig{
			SoundEnabled:         true,
			AlertCooldownSeconds: 5,
			CommandTimeoutMs:     5000,
		},
		Display: DisplayConfig{
			ShowOverlay: true,
			ShowFPS:     true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration from defaults, the JSON file at path (if
// it exists), and environment overrides, then validates the result. A
// missing file is not an error; a malformed or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// All keys absent; defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects out-of-range values. Invalid configuration is a
// startup error; nothing is silently clamped.
func (c Config) Validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera dimensions must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.FPS <= 0 {
		return fmt.Errorf("camera fps must be positive, got %d", c.Camera.FPS)
	}

	d := c.Detection
	if d.EyeRubThreshold < 0 {
		return fmt.Errorf("eye_rub_threshold must be non-negative, got %g", d.EyeRubThreshold)
	}
	if d.DepthThreshold < 0 {
		return fmt.Errorf("depth_threshold must be non-negative, got %g", d.DepthThreshold)
	}
	if d.MotionThreshold < 0 {
		return fmt.Errorf("motion_threshold must be non-negative, got %g", d.MotionThreshold)
	}
	if d.MotionHistoryFrames < 1 {
		return fmt.Errorf("motion_history_frames must be positive, got %d", d.MotionHistoryFrames)
	}
	if d.ConsecutiveFramesThreshold < 1 {
		return fmt.Errorf("consecutive_frames_threshold must be positive, got %d", d.ConsecutiveFramesThreshold)
	}
	if d.MinDetectionConfidence < 0 || d.MinDetectionConfidence > 1 {
		return fmt.Errorf("min_detection_confidence must be in [0,1], got %g", d.MinDetectionConfidence)
	}
	if d.MinTrackingConfidence < 0 || d.MinTrackingConfidence > 1 {
		return fmt.Errorf("min_tracking_confidence must be in [0,1], got %g", d.MinTrackingConfidence)
	}

	if c.Alert.AlertCooldownSeconds < 0 {
		return fmt.Errorf("alert_cooldown_seconds must be non-negative, got %g", c.Alert.AlertCooldownSeconds)
	}
	if c.Alert.Command != "" && c.Alert.CommandTimeoutMs <= 0 {
		return fmt.Errorf("command_timeout_ms must be positive, got %d", c.Alert.CommandTimeoutMs)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}

	return nil
}

// Cooldown returns the alert cooldown as a duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.Alert.AlertCooldownSeconds * float64(time.Second))
}

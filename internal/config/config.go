// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// MaxLights mirrors the size of the shader light array.
const MaxLights = 128

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`

	// ScreenshotDir receives F12 captures; empty is the working directory.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// SceneConfig selects scene content.
type SceneConfig struct {
	LightCount int    `yaml:"light_count"`
	Seed       uint64 `yaml:"seed"`       // 0 seeds from the clock
	File       string `yaml:"scene_file"` // empty uses the built-in scene
	SkyDir     string `yaml:"sky_dir"`    // empty uses a procedural sky
	SkyExt     string `yaml:"sky_ext"`
}

// CameraConfig holds the initial camera state.
type CameraConfig struct {
	Position  [3]float32 `yaml:"position"`
	MoveSpeed float32    `yaml:"move_speed"`
	LookSpeed float32    `yaml:"look_speed"`
	FOV       float32    `yaml:"fov"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Scene: SceneConfig{
			LightCount: 32,
			SkyExt:     ".png",
		},
		Camera: CameraConfig{
			Position:  [3]float32{0, 0, -10},
			MoveSpeed: 3,
			LookSpeed: 1,
			FOV:       45,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks values the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	if c.Scene.LightCount < 3 || c.Scene.LightCount > MaxLights {
		return fmt.Errorf("%w: light_count %d not in [3, %d]", ErrInvalid, c.Scene.LightCount, MaxLights)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: fov %g", ErrInvalid, c.Camera.FOV)
	}
	if c.Camera.MoveSpeed < 0 || c.Camera.LookSpeed < 0 {
		return fmt.Errorf("%w: negative camera speed", ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// Package config handles loading and saving the toolkit configuration.
package config

import (
	"fmt"

	"github.com/Faultbox/midgard-smd/pkg/encoding"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// Config holds all settings shared by the tools.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Model   ModelConfig   `yaml:"model"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig lists where assets are read from. Later entries take priority;
// packages are searched before directories.
type DataConfig struct {
	Dirs      []string          `yaml:"dirs"`      // Plain data directories
	Packages  []string          `yaml:"packages"`  // Zip packages
	Materials map[string]string `yaml:"materials"` // Global material name to image path
}

// ModelConfig controls how model files are interpreted.
type ModelConfig struct {
	EulerUnits   string  `yaml:"euler_units"`   // "degrees" or "radians"
	SwapYZ       bool    `yaml:"swap_yz"`       // Emit Z-up source data as Y-up
	DefaultBlend float32 `yaml:"default_blend"` // Bias used when blending into a new frame
	Charset      string  `yaml:"charset"`       // Encoding of files that are not UTF-8
}

// ViewerConfig holds window and playback settings for smdview.
type ViewerConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	VSync      bool       `yaml:"vsync"`
	FPS        int        `yaml:"fps"` // Animation frames per second
	ClearColor [4]float32 `yaml:"clear_color"`
	Sun        [2]float32 `yaml:"sun"` // Light longitude and latitude in degrees
	ShowBones  bool       `yaml:"show_bones"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	LogFile  string `yaml:"log_file"`
	JSONFile bool   `yaml:"json_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dirs: []string{"."},
		},
		Model: ModelConfig{
			EulerUnits:   "degrees",
			SwapYZ:       true,
			DefaultBlend: 1,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			FPS:        30,
			ClearColor: [4]float32{0.1, 0.1, 0.15, 1},
			Sun:        [2]float32{210, 55},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Units parses EulerUnits.
func (m ModelConfig) Units() (formats.EulerUnits, error) {
	return formats.ParseEulerUnits(m.EulerUnits)
}

// TextCharset parses Charset.
func (m ModelConfig) TextCharset() (encoding.Charset, error) {
	return encoding.ParseCharset(m.Charset)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Model.Units(); err != nil {
		return fmt.Errorf("model.euler_units: %w", err)
	}
	if _, err := c.Model.TextCharset(); err != nil {
		return fmt.Errorf("model.charset: %w", err)
	}
	if c.Model.DefaultBlend <= 0 || c.Model.DefaultBlend > 1 {
		return fmt.Errorf("model.default_blend must be in (0,1], got %g", c.Model.DefaultBlend)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.FPS <= 0 {
		return fmt.Errorf("viewer.fps must be positive, got %d", c.Viewer.FPS)
	}
	return nil
}

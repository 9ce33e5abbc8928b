// Package config handles probe and engine configuration loading.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned when a loaded config holds unusable values.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all settings.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Collision CollisionConfig `yaml:"collision"`
	Assets    AssetsConfig    `yaml:"assets"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnimationConfig holds playback settings.
type AnimationConfig struct {
	Clip  string  `yaml:"clip"`  // Clip played when none is named
	Speed float32 `yaml:"speed"` // Frames advanced per tick
	Loop  bool    `yaml:"loop"`
}

// CollisionConfig holds collider defaults.
type CollisionConfig struct {
	DisabledTypes []string `yaml:"disabled_types"` // Type names switched off at start
	MaxResults    int      `yaml:"max_results"`    // 0 collects every hit
}

// AssetsConfig holds scene loading settings.
type AssetsConfig struct {
	Root     string        `yaml:"root"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			Speed: 1,
			Loop:  true,
		},
		Collision: CollisionConfig{
			MaxResults: 0,
		},
		Assets: AssetsConfig{
			Root:     ".",
			Watch:    false,
			Debounce: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values a file may have set out of range.
func (c *Config) Validate() error {
	if c.Animation.Speed < 0 {
		return fmt.Errorf("animation.speed %v: %w", c.Animation.Speed, ErrInvalid)
	}
	if c.Collision.MaxResults < 0 {
		return fmt.Errorf("collision.max_results %d: %w", c.Collision.MaxResults, ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, ErrInvalid)
	}
	return nil
}

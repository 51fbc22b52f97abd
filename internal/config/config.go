// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/litescript/ls-arcana/internal/theme"
)

// Frame rate bounds.
const (
	MinFPS = 1
	MaxFPS = 60
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all runtime settings.
type Config struct {
	Theme    string `envconfig:"ARCANA_THEME" default:"obsidian"`
	FPS      int    `envconfig:"ARCANA_FPS" default:"30"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"ARCANA_LOG_FILE"`

	Scene   SceneConfig
	Reading ReadingConfig
}

// SceneConfig tunes the sky.
type SceneConfig struct {
	FieldStars       int     `envconfig:"ARCANA_FIELD_STARS" default:"300"`
	MaxShootingStars int     `envconfig:"ARCANA_MAX_SHOOTING_STARS" default:"2"`
	SpawnChance      float64 `envconfig:"ARCANA_SPAWN_CHANCE" default:"0.008"`
	Planets          bool    `envconfig:"ARCANA_PLANETS" default:"true"`
	Seed             uint64  `envconfig:"ARCANA_SEED"` // 0 means time-seeded
}

// ReadingConfig tunes reading generation.
type ReadingConfig struct {
	ChannelDelay time.Duration `envconfig:"ARCANA_CHANNEL_DELAY" default:"2500ms"`
	Schedule     string        `envconfig:"ARCANA_SCHEDULE"`
}

// Load reads configuration from environment variables.
// It first tries to load a .env file (useful for local development).
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot work and clamps the frame rate.
func (c *Config) Validate() error {
	if _, err := theme.Lookup(c.Theme); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.FPS < MinFPS {
		c.FPS = MinFPS
	}
	if c.FPS > MaxFPS {
		c.FPS = MaxFPS
	}
	if c.Scene.FieldStars < 0 {
		return fmt.Errorf("%w: field stars %d < 0", ErrInvalid, c.Scene.FieldStars)
	}
	if c.Scene.MaxShootingStars < 0 {
		return fmt.Errorf("%w: max shooting stars %d < 0", ErrInvalid, c.Scene.MaxShootingStars)
	}
	if c.Scene.SpawnChance < 0 || c.Scene.SpawnChance > 1 {
		return fmt.Errorf("%w: spawn chance %v outside [0,1]", ErrInvalid, c.Scene.SpawnChance)
	}
	if c.Reading.ChannelDelay < 0 {
		return fmt.Errorf("%w: channel delay %v < 0", ErrInvalid, c.Reading.ChannelDelay)
	}
	return nil
}

// FrameInterval is the time between frames at the configured rate.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS < MinFPS {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}

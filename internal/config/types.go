// Package config provides configuration loading and management for folio.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The package provides defaults that play the quantum-grid
// intro and then show the embedded portfolio, so no file is needed.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [IntroConfig] selects the skin and its timing
//   - [PageConfig] controls the portfolio page
//
// Configuration priority (highest to lowest):
//  1. Environment variables (FOLIO_ prefix, e.g. FOLIO_INTRO_SKIN or FOLIO_SKIN)
//  2. Config file specified by FOLIO_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/folio/config.yaml
//     - macOS: ~/Library/Application Support/folio/config.yaml
//     - Windows: %APPDATA%\folio\config.yaml
//  4. ./folio.yaml
//  5. [DefaultConfig] defaults
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"folio/internal/timeline"
)

// ErrInvalidConfig is wrapped by every [Config.Validate] error.
var ErrInvalidConfig = errors.New("invalid config")

// Limits enforced by [Config.Validate].
const (
	MaxParticleCount = 5000
	MinFrameInterval = time.Millisecond
)

// LogLevels lists the accepted values of [LogConfig.Level].
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used throughout
// the application. Use [DefaultConfig] to get the defaults.
type Config struct {
	// Intro selects and tunes the loading-screen skin.
	Intro IntroConfig `mapstructure:"intro"`

	// Page controls the portfolio page shown after the intro.
	Page PageConfig `mapstructure:"page"`

	// Content locates the portfolio data.
	Content ContentConfig `mapstructure:"content"`

	// Log configures the structured log file.
	Log LogConfig `mapstructure:"log"`
}

// IntroConfig selects the intro skin and overrides its timing.
type IntroConfig struct {
	// Skin is the skin name, e.g. "quantum-grid" or "cyber".
	// Can be overridden with the FOLIO_SKIN environment variable.
	Skin string `mapstructure:"skin"`

	// Delays replaces the skin's stage offsets, e.g. ["0s", "1.5s", "4s"].
	// Either one offset per stage (the first must be zero) or one per stage
	// after the initial one. Empty keeps the skin's own timing.
	Delays []time.Duration `mapstructure:"delays"`

	// Timeline is a CSV file (offset_ms, stage, caption) that retimes the
	// skin. Its stages must match the skin's. Delays wins when both are set.
	Timeline string `mapstructure:"timeline"`

	// ParticleCount is the number of particles in particle-driven stages.
	// Default: 200
	ParticleCount int `mapstructure:"particle_count"`

	// FrameInterval is the frame loop period.
	// Default: 33ms
	FrameInterval time.Duration `mapstructure:"frame_interval"`

	// Seed makes particle layouts reproducible. Zero picks a time-based seed.
	Seed uint64 `mapstructure:"seed"`
}

// PageConfig controls the portfolio page.
type PageConfig struct {
	// Enabled shows the page after the intro; when false the program exits.
	// Default: true
	Enabled bool `mapstructure:"enabled"`

	// TypewriterSpeed is the hero tagline reveal rate per character.
	// Default: 30ms
	TypewriterSpeed time.Duration `mapstructure:"typewriter_speed"`

	// Markdown contains markdown rendering configuration.
	Markdown MarkdownConfig `mapstructure:"markdown"`
}

// MarkdownConfig contains configuration for markdown rendering of page bodies.
type MarkdownConfig struct {
	// Enabled controls whether markdown rendering is active.
	// Default: true
	Enabled bool `mapstructure:"enabled"`

	// Style is the glamour theme to use: "dark", "light", "dracula", "notty".
	// Avoid "auto" as it can cause detection delays on some terminals.
	// Default: "dark"
	Style string `mapstructure:"style"`

	// WordWrap is the column width for text wrapping. Zero follows the window.
	WordWrap int `mapstructure:"word_wrap"`
}

// ContentConfig locates the portfolio data.
type ContentConfig struct {
	// Path is the portfolio YAML file. Empty searches ./portfolio.yaml and
	// falls back to the embedded portfolio. FOLIO_CONTENT_PATH overrides it.
	Path string `mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	// Default: "info"
	Level string `mapstructure:"level"`

	// File receives JSON log lines. Empty disables logging, since the
	// terminal belongs to the intro.
	File string `mapstructure:"file"`
}

// DefaultConfig returns a new [Config] with the defaults.
func DefaultConfig() *Config {
	return &Config{
		Intro: IntroConfig{
			Skin:          timeline.QuantumGrid,
			ParticleCount: 200,
			FrameInterval: 33 * time.Millisecond,
		},
		Page: PageConfig{
			Enabled:         true,
			TypewriterSpeed: 30 * time.Millisecond,
			Markdown: MarkdownConfig{
				Enabled: true,
				Style:   "dark",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := timeline.Builtin(c.Intro.Skin); err != nil {
		return fmt.Errorf("%w: intro.skin %q is not one of %v", ErrInvalidConfig, c.Intro.Skin, timeline.BuiltinNames())
	}
	if c.Intro.ParticleCount < 1 || c.Intro.ParticleCount > MaxParticleCount {
		return fmt.Errorf("%w: intro.particle_count must be between 1 and %d, got %d", ErrInvalidConfig, MaxParticleCount, c.Intro.ParticleCount)
	}
	if c.Intro.FrameInterval < MinFrameInterval {
		return fmt.Errorf("%w: intro.frame_interval must be at least %s, got %s", ErrInvalidConfig, MinFrameInterval, c.Intro.FrameInterval)
	}
	for i, d := range c.Intro.Delays {
		if d < 0 {
			return fmt.Errorf("%w: intro.delays[%d] is negative", ErrInvalidConfig, i)
		}
	}
	if c.Page.TypewriterSpeed < 0 {
		return fmt.Errorf("%w: page.typewriter_speed is negative", ErrInvalidConfig)
	}
	if c.Page.Markdown.WordWrap < 0 {
		return fmt.Errorf("%w: page.markdown.word_wrap is negative", ErrInvalidConfig)
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q is not one of %v", ErrInvalidConfig, c.Log.Level, LogLevels)
	}
	return nil
}

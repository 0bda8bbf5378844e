package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment and file locations.
const (
	// EnvPrefix prefixes every environment override, e.g. FOLIO_INTRO_SKIN.
	EnvPrefix = "FOLIO"

	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "FOLIO_CONFIG_PATH"

	// LocalConfigFile is looked for in the working directory.
	LocalConfigFile = "folio.yaml"

	configDirName  = "folio"
	configFileName = "config.yaml"
)

// Loader handles Viper-based configuration loading.
//
// Use [NewLoader] to create an instance with defaults and environment
// bindings in place, then [Loader.Load] or [Loader.LoadFromFile].
type Loader struct {
	v      *viper.Viper
	source string
}

// NewLoader creates a new [Loader] seeded with [DefaultConfig].
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases for the settings people change most.
	_ = v.BindEnv("intro.skin", "FOLIO_INTRO_SKIN", "FOLIO_SKIN")
	_ = v.BindEnv("log.level", "FOLIO_LOG_LEVEL", "FOLIO_LOG")
	// Delays has no default, so it is bound explicitly.
	_ = v.BindEnv("intro.delays", "FOLIO_INTRO_DELAYS", "FOLIO_DELAYS")

	return &Loader{v: v}
}

// setDefaults registers every key so environment overrides apply to it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("intro.skin", cfg.Intro.Skin)
	v.SetDefault("intro.timeline", cfg.Intro.Timeline)
	v.SetDefault("intro.particle_count", cfg.Intro.ParticleCount)
	v.SetDefault("intro.frame_interval", cfg.Intro.FrameInterval.String())
	v.SetDefault("intro.seed", cfg.Intro.Seed)

	v.SetDefault("page.enabled", cfg.Page.Enabled)
	v.SetDefault("page.typewriter_speed", cfg.Page.TypewriterSpeed.String())
	v.SetDefault("page.markdown.enabled", cfg.Page.Markdown.Enabled)
	v.SetDefault("page.markdown.style", cfg.Page.Markdown.Style)
	v.SetDefault("page.markdown.word_wrap", cfg.Page.Markdown.WordWrap)

	v.SetDefault("content.path", cfg.Content.Path)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// Load discovers and loads the configuration.
//
// The first existing file of FOLIO_CONFIG_PATH, the user config file and
// ./folio.yaml is read; with none, the defaults and environment apply.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return l.LoadFromFile(path)
	}

	if path, err := DefaultConfigPath(); err == nil && fileExists(path) {
		return l.LoadFromFile(path)
	}

	if fileExists(LocalConfigFile) {
		return l.LoadFromFile(LocalConfigFile)
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from path. The format follows the file
// extension (YAML, JSON, TOML).
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	l.source = path
	return l.unmarshal()
}

// Source returns the file the configuration was read from, or empty when
// only defaults and environment were used.
func (l *Loader) Source() string { return l.source }

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// ConfigDir returns the platform-standard folio config directory.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, configDirName), nil
}

// DefaultConfigPath returns the user config file path.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

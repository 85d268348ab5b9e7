package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/tileweave/internal/world"
)

// ConfigEnv names the environment variable consulted when no config path is given.
const ConfigEnv = "TILEWEAVE_CONFIG"

// Config holds generator and viewer options.
type Config struct {
	// Seed for random number generation. Used for reproducible maps.
	// A seed of 0 means a random seed will be generated.
	Seed int64 `yaml:"seed"`

	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Tileset string `yaml:"tileset"`

	// Rules optionally replaces the tileset's embedded rule text with a file on disk.
	Rules string `yaml:"rules"`

	// CheckpointInterval takes a recent checkpoint every n solver steps. 0 disables it.
	CheckpointInterval int `yaml:"checkpoint_interval"`

	LogLevel string `yaml:"log_level"`
	// LogFile receives log output while the viewer owns the terminal. Empty discards it.
	LogFile   string `yaml:"log_file"`
	Telemetry bool   `yaml:"telemetry"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Width:              world.DefaultWidth,
		Height:             world.DefaultHeight,
		Tileset:            "dungeon",
		CheckpointInterval: 100,
		LogLevel:           "info",
		Telemetry:          true,
	}
}

// LoadConfig reads a YAML config over the defaults. With an empty path the
// TILEWEAVE_CONFIG variable is used; if that is empty too the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(ConfigEnv)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a generator cannot start with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("checkpoint_interval must not be negative, got %d", c.CheckpointInterval)
	}
	if c.Tileset == "" {
		return fmt.Errorf("tileset must be set")
	}
	return nil
}

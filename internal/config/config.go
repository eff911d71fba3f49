// Package config holds the CLI configuration, loaded from files,
// environment variables and flags through Viper.
package config

import (
	"fmt"

	"github.com/MeKo-Tech/imagebatch/internal/batcher"
)

// ModelConfig configures the optional inference session.
type ModelConfig struct {
	Path    string `mapstructure:"path"`
	Threads int    `mapstructure:"threads"`
}

// Config is the top-level configuration.
type Config struct {
	Shape        string      `mapstructure:"shape"`
	DType        string      `mapstructure:"dtype"`
	ExactBatches bool        `mapstructure:"exact_batches"`
	Shuffle      bool        `mapstructure:"shuffle"`
	Workers      int         `mapstructure:"workers"`
	LogLevel     string      `mapstructure:"log_level"`
	Model        ModelConfig `mapstructure:"model"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Shape:    "1x3x640x640",
		DType:    "float32",
		LogLevel: "info",
	}
}

// ParsedShape parses and validates the configured shape string.
func (c *Config) ParsedShape() (batcher.Shape, error) {
	shape, err := batcher.ParseShape(c.Shape)
	if err != nil {
		return batcher.Shape{}, err
	}
	if err := shape.Validate(); err != nil {
		return batcher.Shape{}, err
	}
	return shape, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := c.ParsedShape(); err != nil {
		return err
	}
	switch c.DType {
	case "float32", "float64":
	default:
		return fmt.Errorf("dtype must be float32 or float64, got %q", c.DType)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

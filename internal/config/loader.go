package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "imagebatch"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "IMAGEBATCH"
)

// Loader loads configuration from files, environment variables and
// defaults, in Viper precedence order.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader backed by the global Viper instance so flag
// bindings made by the CLI take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads configuration and validates it. A missing config file is not
// an error; defaults and environment variables apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// SetConfigFile pins the loader to an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("$HOME/.config/imagebatch")
	l.v.AddConfigPath("/etc/imagebatch")
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	def := Default()
	l.v.SetDefault("shape", def.Shape)
	l.v.SetDefault("dtype", def.DType)
	l.v.SetDefault("exact_batches", def.ExactBatches)
	l.v.SetDefault("shuffle", def.Shuffle)
	l.v.SetDefault("workers", def.Workers)
	l.v.SetDefault("log_level", def.LogLevel)
	l.v.SetDefault("model.path", "")
	l.v.SetDefault("model.threads", 0)
}

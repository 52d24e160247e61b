package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "gridmatch"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "GRIDMATCH"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader backed by the global viper
// instance so cobra flag bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// GetViper exposes the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Load loads configuration from files, environment variables, and defaults,
// then validates it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshalAndValidate()
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	return l.unmarshalAndValidate()
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// addConfigPaths registers the config file search locations.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "gridmatch"))
	}
	l.v.AddConfigPath("/etc/gridmatch")
}

// setupEnvironmentVariables enables GRIDMATCH_* overrides, mapping nested
// keys like engine.grid_width to GRIDMATCH_ENGINE_GRID_WIDTH.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

// setDefaults registers the built-in defaults with viper.
func (l *Loader) setDefaults() {
	def := DefaultConfig()

	l.v.SetDefault("log_level", def.LogLevel)
	l.v.SetDefault("verbose", def.Verbose)

	l.v.SetDefault("engine.grid_width", def.Engine.GridWidth)
	l.v.SetDefault("engine.grid_height", def.Engine.GridHeight)
	l.v.SetDefault("engine.alpha", def.Engine.Alpha)
	l.v.SetDefault("engine.with_scale", def.Engine.WithScale)
	l.v.SetDefault("engine.with_rotation", def.Engine.WithRotation)
	l.v.SetDefault("engine.workers", def.Engine.Workers)

	l.v.SetDefault("pruner.method", def.Pruner.Method)
	l.v.SetDefault("pruner.ratio", def.Pruner.Ratio)

	l.v.SetDefault("output.format", def.Output.Format)
	l.v.SetDefault("output.file", def.Output.File)
	l.v.SetDefault("output.overlay_path", def.Output.OverlayPath)
	l.v.SetDefault("output.overlay_max_width", def.Output.OverlayMaxWidth)

	l.v.SetDefault("server.host", def.Server.Host)
	l.v.SetDefault("server.port", def.Server.Port)
	l.v.SetDefault("server.cors_origin", def.Server.CORSOrigin)
	l.v.SetDefault("server.max_body_mb", def.Server.MaxBodyMB)
	l.v.SetDefault("server.timeout_sec", def.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
}

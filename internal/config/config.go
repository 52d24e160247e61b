// Package config defines the application configuration for the gridmatch
// CLI and server, loaded from files, environment variables, and flags.
package config

import (
	"fmt"

	"github.com/MeKo-Tech/gridmatch/internal/gms"
	"github.com/MeKo-Tech/gridmatch/internal/pruner"
)

// Config represents the complete configuration for the gridmatch
// application. It covers all commands (filter, serve) and supports loading
// from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Verification engine settings
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" json:"engine"`

	// Pruning method selection
	Pruner PrunerConfig `mapstructure:"pruner" yaml:"pruner" json:"pruner"`

	// Output formatting
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// EngineConfig contains the grid verification engine settings.
type EngineConfig struct {
	GridWidth    int     `mapstructure:"grid_width" yaml:"grid_width" json:"grid_width"`
	GridHeight   int     `mapstructure:"grid_height" yaml:"grid_height" json:"grid_height"`
	Alpha        float64 `mapstructure:"alpha" yaml:"alpha" json:"alpha"`
	WithScale    bool    `mapstructure:"with_scale" yaml:"with_scale" json:"with_scale"`
	WithRotation bool    `mapstructure:"with_rotation" yaml:"with_rotation" json:"with_rotation"`
	Workers      int     `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// ToGMS converts to the engine's own configuration type.
func (e EngineConfig) ToGMS() gms.Config {
	return gms.Config{
		GridWidth:    e.GridWidth,
		GridHeight:   e.GridHeight,
		Alpha:        e.Alpha,
		WithScale:    e.WithScale,
		WithRotation: e.WithRotation,
		Workers:      e.Workers,
	}
}

// PrunerConfig selects the pruning method.
type PrunerConfig struct {
	Method string  `mapstructure:"method" yaml:"method" json:"method"`
	Ratio  float64 `mapstructure:"ratio" yaml:"ratio" json:"ratio"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format          string `mapstructure:"format" yaml:"format" json:"format"`
	File            string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayPath     string `mapstructure:"overlay_path" yaml:"overlay_path" json:"overlay_path"`
	OverlayMaxWidth int    `mapstructure:"overlay_max_width" yaml:"overlay_max_width" json:"overlay_max_width"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxBodyMB       int    `mapstructure:"max_body_mb" yaml:"max_body_mb" json:"max_body_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	g := gms.DefaultConfig()
	p := pruner.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Engine: EngineConfig{
			GridWidth:  g.GridWidth,
			GridHeight: g.GridHeight,
			Alpha:      g.Alpha,
			Workers:    g.Workers,
		},
		Pruner: PrunerConfig{
			Method: string(p.Method),
			Ratio:  p.Ratio,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxBodyMB:       32,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if err := c.Engine.ToGMS().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine: workers must not be negative, got %d", c.Engine.Workers)
	}

	if _, err := pruner.ParseMethod(c.Pruner.Method); err != nil {
		return fmt.Errorf("pruner: %w", err)
	}
	if c.Pruner.Ratio <= 0 || c.Pruner.Ratio >= 1 {
		return fmt.Errorf("pruner: ratio must lie in (0,1), got %v", c.Pruner.Ratio)
	}

	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output: invalid format %q", c.Output.Format)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}
	if c.Server.MaxBodyMB <= 0 {
		return fmt.Errorf("server: max body size must be positive, got %d", c.Server.MaxBodyMB)
	}
	return nil
}

// PrunerSettings builds the pruner configuration from the loaded values.
func (c *Config) PrunerSettings() (pruner.Config, error) {
	method, err := pruner.ParseMethod(c.Pruner.Method)
	if err != nil {
		return pruner.Config{}, err
	}
	return pruner.Config{
		Method: method,
		Ratio:  c.Pruner.Ratio,
		GMS:    c.Engine.ToGMS(),
	}, nil
}

// Package config loads Gridnik settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is prepended to environment overrides, e.g. GRIDNIK_CALC_FLOOR_VALS.
const EnvPrefix = "GRIDNIK"

// Config is the complete application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Calc   CalcConfig   `mapstructure:"calc" yaml:"calc"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
}

// LoggerConfig controls the zap logger and optional rotating log file.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// CalcConfig holds the calculator defaults applied when a request does not
// say otherwise.
type CalcConfig struct {
	// Corrections lists fallback corrections in stack order; the last entry
	// is tried first.
	Corrections      []string `mapstructure:"corrections" yaml:"corrections"`
	FloorVals        bool     `mapstructure:"floor_vals" yaml:"floor_vals"`
	UpdateLeftMargin bool     `mapstructure:"update_left_margin" yaml:"update_left_margin"`
}

// EngineConfig controls DSL evaluation.
type EngineConfig struct {
	EvalTimeout time.Duration `mapstructure:"eval_timeout" yaml:"eval_timeout"`
}

// ExportConfig controls tessellation of grid previews and exports.
type ExportConfig struct {
	// Kernel names the geometry backend: sdfx or manifold.
	Kernel    string  `mapstructure:"kernel" yaml:"kernel"`
	MeshCells int     `mapstructure:"mesh_cells" yaml:"mesh_cells"`
	Depth     float64 `mapstructure:"depth" yaml:"depth"`
	Workers   int     `mapstructure:"workers" yaml:"workers"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gridnik")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	// -- Calc --
	v.SetDefault("calc.corrections", grid.CanonicalCorrections.Strings())
	v.SetDefault("calc.floor_vals", false)
	v.SetDefault("calc.update_left_margin", false)

	// -- Engine --
	v.SetDefault("engine.eval_timeout", "5s")

	// -- Export --
	v.SetDefault("export.kernel", "sdfx")
	v.SetDefault("export.mesh_cells", 200)
	v.SetDefault("export.depth", 12.0)
	v.SetDefault("export.workers", 4)
}

// NewDefaultConfig returns the configuration with nothing but defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewViper returns a viper instance with defaults and environment overrides
// bound. When path is empty it looks for gridnik.yaml in the working
// directory and in $HOME/.config/gridnik; a missing file is not an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gridnik")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gridnik"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from path (or the default locations), the
// environment and the defaults.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if _, err := grid.ParseCorrections(c.Calc.Corrections); err != nil {
		return fmt.Errorf("%w: calc.corrections: %v", ErrInvalidConfig, err)
	}
	if c.Engine.EvalTimeout <= 0 {
		return fmt.Errorf("%w: engine.eval_timeout must be positive", ErrInvalidConfig)
	}
	switch c.Export.Kernel {
	case "sdfx", "manifold":
	default:
		return fmt.Errorf("%w: export.kernel must be sdfx or manifold", ErrInvalidConfig)
	}
	if c.Export.MeshCells <= 0 {
		return fmt.Errorf("%w: export.mesh_cells must be a positive integer", ErrInvalidConfig)
	}
	if c.Export.Depth <= 0 {
		return fmt.Errorf("%w: export.depth must be positive", ErrInvalidConfig)
	}
	if c.Export.Workers <= 0 {
		return fmt.Errorf("%w: export.workers must be a positive integer", ErrInvalidConfig)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logger.format must be console or json", ErrInvalidConfig)
	}
	return nil
}

// Options converts the calculator defaults into grid options.
func (c CalcConfig) Options() grid.Options {
	corrections, err := grid.ParseCorrections(c.Corrections)
	if err != nil {
		corrections = grid.CanonicalCorrections
	}
	return grid.Options{
		Corrections:      corrections,
		UpdateLeftMargin: c.UpdateLeftMargin,
	}
}

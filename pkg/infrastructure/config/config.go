// Package config loads simulator run settings.
// Order: defaults -> YAML file -> INVSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds run settings that are not part of a network instance
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Trials     TrialsConfig     `yaml:"trials"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
}

// SimulationConfig controls a single run
type SimulationConfig struct {
	Periods              int    `yaml:"periods" validate:"min=1"`
	Seed                 uint64 `yaml:"seed"`
	ConsistencyChecks    bool   `yaml:"consistency_checks"`
	SteadyStatePipelines bool   `yaml:"steady_state_pipelines"`
}

// TrialsConfig controls repeated runs
type TrialsConfig struct {
	Count       int `yaml:"count" validate:"min=1"`
	Parallelism int `yaml:"parallelism" validate:"min=0"`
}

// LoggingConfig controls diagnostic output
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=error warn info debug trace"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// OutputConfig controls result rendering
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`
	// Dir receives CSV history files when set
	Dir string `yaml:"dir"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Periods:           100,
			Seed:              1,
			ConsistencyChecks: true,
		},
		Trials: TrialsConfig{
			Count:       10,
			Parallelism: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load returns the defaults overlaid with path (if non-empty) and the environment
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Report the first problem
	for _, e := range validationErrs {
		switch e.Tag() {
		case "min":
			return fmt.Errorf("%s: must be at least %s, got %v", e.Namespace(), e.Param(), e.Value())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", e.Namespace(), e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: failed %s validation", e.Namespace(), e.Tag())
		}
	}
	return err
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("INVSIM_PERIODS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INVSIM_PERIODS: %w", err)
		}
		cfg.Simulation.Periods = n
	}
	if v := os.Getenv("INVSIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("INVSIM_SEED: %w", err)
		}
		cfg.Simulation.Seed = n
	}
	if v := os.Getenv("INVSIM_CONSISTENCY_CHECKS"); v != "" {
		cfg.Simulation.ConsistencyChecks = v == "true" || v == "1"
	}
	if v := os.Getenv("INVSIM_TRIALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INVSIM_TRIALS: %w", err)
		}
		cfg.Trials.Count = n
	}
	if v := os.Getenv("INVSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("INVSIM_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("INVSIM_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	return nil
}

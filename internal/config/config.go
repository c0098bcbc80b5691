// Package config handles configuration management for engram.
//
// Configuration is loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (ENGRAM_*)
// 3. Configuration file (.engram.yaml)
// 4. Default values (lowest priority)
package config

import "time"

// Config is the main configuration structure for engram.
type Config struct {
	// Memory configures the associative memory index.
	Memory MemoryConfig `mapstructure:"memory" yaml:"memory"`

	// Log configures logging.
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Bench configures the benchmark command.
	Bench BenchConfig `mapstructure:"bench" yaml:"bench"`
}

// MemoryConfig configures the memory store.
type MemoryConfig struct {
	// MaxCapacity is the maximum number of stored nodes (> 0).
	MaxCapacity int `mapstructure:"max_capacity" yaml:"max_capacity"`

	// DecayThreshold is the reinforcement floor below which an idle
	// node becomes eviction-eligible.
	DecayThreshold float64 `mapstructure:"decay_threshold" yaml:"decay_threshold"`

	// RetentionWindow is how long a node may go unaccessed before it
	// counts as stale.
	RetentionWindow time.Duration `mapstructure:"retention_window" yaml:"retention_window"`

	// ReinforcementWeight scales the reinforcement bonus in search
	// ranking.
	ReinforcementWeight float64 `mapstructure:"reinforcement_weight" yaml:"reinforcement_weight"`

	// StrengthenAmount is the default reinforcement bump on access.
	StrengthenAmount float64 `mapstructure:"strengthen_amount" yaml:"strengthen_amount"`
}

// MarshalYAML renders RetentionWindow as a duration string ("168h0m0s")
// rather than raw nanoseconds, so generated config files stay editable.
// The loader parses either form.
func (m MemoryConfig) MarshalYAML() (any, error) {
	return struct {
		MaxCapacity         int     `yaml:"max_capacity"`
		DecayThreshold      float64 `yaml:"decay_threshold"`
		RetentionWindow     string  `yaml:"retention_window"`
		ReinforcementWeight float64 `yaml:"reinforcement_weight"`
		StrengthenAmount    float64 `yaml:"strengthen_amount"`
	}{
		MaxCapacity:         m.MaxCapacity,
		DecayThreshold:      m.DecayThreshold,
		RetentionWindow:     m.RetentionWindow.String(),
		ReinforcementWeight: m.ReinforcementWeight,
		StrengthenAmount:    m.StrengthenAmount,
	}, nil
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum logging level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`
}

// BenchConfig configures the bench command.
type BenchConfig struct {
	// Nodes is the number of entries seeded before the timed phase.
	Nodes int `mapstructure:"nodes" yaml:"nodes"`

	// Searches is the number of search operations in the timed phase.
	Searches int `mapstructure:"searches" yaml:"searches"`

	// Workers is the number of concurrent workers (0 = GOMAXPROCS).
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Memory.MaxCapacity <= 0 {
		return &ValidationError{Field: "memory.max_capacity", Message: "must be positive"}
	}
	if c.Memory.DecayThreshold < 0 {
		return &ValidationError{Field: "memory.decay_threshold", Message: "must not be negative"}
	}
	if c.Memory.RetentionWindow <= 0 {
		return &ValidationError{Field: "memory.retention_window", Message: "must be positive"}
	}
	if c.Memory.StrengthenAmount < 0 {
		return &ValidationError{Field: "memory.strengthen_amount", Message: "must not be negative"}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return &ValidationError{Field: "log.level", Message: "must be one of: debug, info, warn, error"}
	}

	if c.Bench.Nodes < 0 || c.Bench.Searches < 0 || c.Bench.Workers < 0 {
		return &ValidationError{Field: "bench", Message: "counts must not be negative"}
	}
	if c.Bench.Searches > 0 && c.Bench.Nodes <= 0 {
		return &ValidationError{Field: "bench.nodes", Message: "must be positive when bench.searches is set"}
	}

	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}

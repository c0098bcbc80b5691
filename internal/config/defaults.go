package config

import "time"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Memory: MemoryConfig{
			MaxCapacity:         1000,
			DecayThreshold:      0.2,
			RetentionWindow:     7 * 24 * time.Hour,
			ReinforcementWeight: 0.05,
			StrengthenAmount:    0.1,
		},
		Log: LogConfig{
			Level: "info",
		},
		Bench: BenchConfig{
			Nodes:    5000,
			Searches: 20000,
			Workers:  0,
		},
	}
}

package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config for TOML decoding. Pointer fields distinguish
// "absent" from zero values.
type FileConfig struct {
	Chart    string   `toml:"chart"`
	Events   []string `toml:"events"`
	LogLevel string   `toml:"log_level"`
	Watch    *bool    `toml:"watch"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig applies file values to cfg, skipping settings the user
// already pinned with an explicit flag.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	if fc.Chart != "" && !changed["chart"] {
		cfg.ChartPath = fc.Chart
	}
	if len(fc.Events) > 0 && !changed["events"] {
		cfg.Events = fc.Events
	}
	if fc.LogLevel != "" && !changed["log-level"] {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.Watch != nil && !changed["watch"] {
		cfg.Watch = *fc.Watch
	}
}

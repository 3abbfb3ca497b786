// Package cliconfig holds configuration handling for the hsmdemo command:
// defaults, TOML file loading, environment overrides, and precedence
// against explicitly-set flags.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds the resolved CLI configuration for hsmdemo.
type Config struct {
	ChartPath string
	Events    []string
	LogLevel  string
	Watch     bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ChartPath == "" {
		return fmt.Errorf("chart is required")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Logger builds a console zerolog.Logger at the configured level.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// DefaultConfigPath returns the default configuration file path,
// ~/.hsmdemo/config.toml, or empty when the home directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".hsmdemo", "config.toml")
	}
	return ""
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ApplyEnv applies HSMDEMO_* environment variables to cfg. Values are
// overridden by flags the user set explicitly (the changed map, keyed by
// flag name).
func ApplyEnv(cfg *Config, changed map[string]bool) {
	if v := os.Getenv("HSMDEMO_CHART"); v != "" && !changed["chart"] {
		cfg.ChartPath = v
	}
	if v := os.Getenv("HSMDEMO_EVENTS"); v != "" && !changed["events"] {
		cfg.Events = splitEvents(v)
	}
	if v := os.Getenv("HSMDEMO_LOG_LEVEL"); v != "" && !changed["log-level"] {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HSMDEMO_WATCH"); v != "" && !changed["watch"] {
		cfg.Watch = v == "1" || strings.EqualFold(v, "true")
	}
}

func splitEvents(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

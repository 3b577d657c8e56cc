package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("invalid output %q (valid: %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (valid: %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if c.DerivedSource == "" {
		return fmt.Errorf("derived_source is required")
	}
	return nil
}

// ValidateDirectories checks that the resolved directories exist.
func (c *Config) ValidateDirectories() error {
	if c.Layout == nil {
		return fmt.Errorf("configuration layout not resolved")
	}
	return c.Layout.Validate()
}

// Level returns the slog level for LogLevel. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// Package config provides configuration management for the nudbconfig CLI.
//
// Settings are layered with koanf: built-in defaults, then a
// .nudbconfig.yaml file, then NUDBCONFIG_* environment variables, then
// flags that were set on the command line.
package config

import (
	intconfig "github.com/nudb/nudbconfig/internal/config"
)

// Layout is an alias for the shared declaration layout.
type Layout = intconfig.Layout

// Config holds all CLI configuration options.
type Config struct {
	ConfigDir     string `koanf:"config_dir"`
	OverridesDir  string `koanf:"overrides_dir"`
	Output        string `koanf:"output"`
	LogLevel      string `koanf:"log_level"`
	DerivedSource string `koanf:"derived_source"`
	Verbose       bool   `koanf:"verbose"`

	// Layout is resolved from the fields above after loading.
	Layout *Layout `koanf:"-"`
}

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputTOML = "toml"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// OutputFormats lists every accepted output format.
var OutputFormats = []string{OutputText, OutputTOML, OutputYAML, OutputJSON}

// LogLevels lists every accepted log level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultOutput        = intconfig.DefaultOutput
	DefaultLogLevel      = intconfig.DefaultLogLevel
	DefaultDerivedSource = intconfig.DefaultDerivedSource
	DefaultConfigFile    = ".nudbconfig.yaml"
	EnvPrefix            = "NUDBCONFIG_"
)

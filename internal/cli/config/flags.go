package config

import (
	"strings"

	"github.com/spf13/pflag"
)

// Setting describes one layered CLI setting: its koanf key, the flag that
// sets it, and its built-in default.
type Setting struct {
	Key         string
	Flag        string
	Short       string
	Default     any
	Description string
}

// EnvVar returns the environment variable that sets s.
func (s Setting) EnvVar() string {
	return EnvPrefix + strings.ToUpper(s.Key)
}

// Settings lists every layered setting in flag order.
var Settings = []Setting{
	{Key: "config_dir", Flag: "config-dir", Default: "", Description: "Directory holding the declaration files"},
	{Key: "overrides_dir", Flag: "overrides", Default: "", Description: "Directory of override declaration files to merge"},
	{Key: "output", Flag: "output", Short: "o", Default: DefaultOutput, Description: "Output format (text|toml|yaml|json)"},
	{Key: "log_level", Flag: "log-level", Default: DefaultLogLevel, Description: "Log level (debug|info|warn|error)"},
	{Key: "derived_source", Flag: "derived-source", Default: DefaultDerivedSource, Description: "Name of the variables file holding derived variables"},
	{Key: "verbose", Flag: "verbose", Short: "v", Default: false, Description: "Verbose output"},
}

// RegisterFlags adds a flag for every setting to fs. Flag defaults stay
// empty so that only flags set on the command line take precedence.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, s := range Settings {
		if _, ok := s.Default.(bool); ok {
			fs.BoolP(s.Flag, s.Short, false, s.Description)
			continue
		}
		fs.StringP(s.Flag, s.Short, "", s.Description)
	}
}

func defaultValues() map[string]any {
	out := make(map[string]any, len(Settings))
	for _, s := range Settings {
		out[s.Key] = s.Default
	}
	return out
}

func keyForFlag(name string) (string, bool) {
	for _, s := range Settings {
		if s.Flag == name {
			return s.Key, true
		}
	}
	return "", false
}

package config

// Default configuration values.
const (
	DefaultConfigDir     = "config_tomls"
	DefaultDerivedSource = "variables_derived"
	DefaultOutput        = "text"
	DefaultLogLevel      = "warn"
)

// ApplyDefaults fills unset fields of a Layout.
func ApplyDefaults(l *Layout) {
	if l == nil {
		return
	}
	if l.ConfigDir == "" {
		l.ConfigDir = DefaultConfigDir
	}
	if l.DerivedSource == "" {
		l.DerivedSource = DefaultDerivedSource
	}
}

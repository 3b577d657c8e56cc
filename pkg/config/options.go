package config

import "log/slog"

// DefaultDerivedSource is the name of the variables source whose derived
// variables get synthesized label variables.
const DefaultDerivedSource = "variables_derived"

type options struct {
	logger         *slog.Logger
	derivedSource  string
	codelistExtras map[int]map[string]string
	skipChecks     bool
}

// Option configures Load and FromSources.
type Option func(*options)

// WithLogger sets the logger that receives warnings. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDerivedSource sets the variables source name (file name without
// extension) scanned for label synthesis.
func WithDerivedSource(name string) Option {
	return func(o *options) { o.derivedSource = name }
}

// WithCodelistExtras replaces the built-in codelist augmentation table.
func WithCodelistExtras(extras map[int]map[string]string) Option {
	return func(o *options) { o.codelistExtras = extras }
}

// WithoutCrossChecks skips the batched cross-reference checks at load time.
// Derivation cycles are still fatal.
func WithoutCrossChecks() Option {
	return func(o *options) { o.skipChecks = true }
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:         slog.Default(),
		derivedSource:  DefaultDerivedSource,
		codelistExtras: DefaultCodelistExtras(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

package core

// Options holds behavioural flags.
type Options struct {
	WarnUnsafeDerive bool `toml:"warn_unsafe_derive"`
}

// DefaultOptions returns the options used when no options file sets them.
func DefaultOptions() *Options {
	return &Options{WarnUnsafeDerive: true}
}

// Clone returns a copy.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nudb/nudbconfig/internal/loader"
)

// ApplyOverrides merges override sources into cfg in place.
//
// Within each category, sources are applied in order. For every key:
// unknown keys are warned about and skipped; the deletion sentinel removes
// the key or entry; a table merges recursively into a record, collection
// or mapping; any other value replaces the current one, with a warning when
// it is unchanged. New collection entries are validated as a whole and get
// their key as name.
//
// The merge is all-or-nothing: it is first run on a silent copy, and cfg is
// only touched once that succeeded. Collections keep their identity.
func ApplyOverrides(cfg *Configuration, overrides Sources) error {
	if err := applyOverrides(cfg.quiet(), overrides); err != nil {
		return err
	}
	return applyOverrides(cfg, overrides)
}

// MergeCopy returns a copy of cfg with overrides applied. cfg is not modified.
func MergeCopy(cfg *Configuration, overrides Sources) (*Configuration, error) {
	out := cfg.Clone()
	if err := applyOverrides(out, overrides); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyOverridesFromDir parses the declaration files in dir and applies
// them to c in place.
func (c *Configuration) ApplyOverridesFromDir(dir string) error {
	overrides, err := discoverOverrides(dir)
	if err != nil {
		return err
	}
	return ApplyOverrides(c, overrides)
}

// MergeTOMLs parses the declaration files in dir and returns a copy of c
// with them applied.
func (c *Configuration) MergeTOMLs(dir string) (*Configuration, error) {
	overrides, err := discoverOverrides(dir)
	if err != nil {
		return nil, err
	}
	return MergeCopy(c, overrides)
}

func discoverOverrides(dir string) (Sources, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrOverrideDirNotFound, dir)
	case err != nil:
		return nil, fmt.Errorf("stat override directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrOverrideDirNotFound, dir)
	}
	return loader.Discover(dir)
}

func applyOverrides(cfg *Configuration, overrides Sources) error {
	for _, category := range loader.Categories {
		srcs := overrides[category]
		for _, src := range srcs {
			m := &merger{logger: cfg.logger, src: src}
			root := recordTarget{rec: cfg.Record(), allowed: topLevelKeys[category]}
			if err := root.merge(m, src.Data, nil); err != nil {
				return err
			}
		}
		if category == CategoryVariables && len(srcs) > 0 {
			cfg.applyCodelistExtras(codelistTouched(srcs))
		}
	}
	if err := cfg.Settings().Validate(); err != nil {
		return &SchemaError{Category: CategorySettings, Err: err}
	}
	return CheckDerivationAcyclic(cfg)
}

package core

import (
	"sort"

	"go.uber.org/multierr"
)

// Dataset is a named set of variables plus its storage location and
// per-variable quality rules.
type Dataset struct {
	Team                   string             `toml:"team"`
	Bucket                 string             `toml:"bucket,omitempty"`
	Glob                   string             `toml:"glob,omitempty"`
	Variables              []string           `toml:"variables,omitempty"`
	ThresholdsEmpty        map[string]float64 `toml:"thresholds_empty,omitempty"`
	MinValues              map[string]string  `toml:"min_values,omitempty"`
	MaxValues              map[string]string  `toml:"max_values,omitempty"`
	DatasetSpecificRenames map[string]string  `toml:"dataset_specific_renames,omitempty"`
}

// HasVariable reports whether name is listed in the dataset.
func (d *Dataset) HasVariable(name string) bool {
	for _, v := range d.Variables {
		if v == name {
			return true
		}
	}
	return false
}

// Validate checks the dataset on its own. name is used for error paths.
func (d *Dataset) Validate(name string) error {
	path := joinPath("datasets", name)
	var errs error
	keys := make([]string, 0, len(d.ThresholdsEmpty))
	for k := range d.ThresholdsEmpty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if d.ThresholdsEmpty[k] < 0 {
			errs = multierr.Append(errs, fieldErr(joinPath(path, "thresholds_empty", k),
				"must be >= 0, got %v", d.ThresholdsEmpty[k]))
		}
	}
	return errs
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Variables = cloneSlice(d.Variables)
	cp.ThresholdsEmpty = cloneMap(d.ThresholdsEmpty)
	cp.MinValues = cloneMap(d.MinValues)
	cp.MaxValues = cloneMap(d.MaxValues)
	cp.DatasetSpecificRenames = cloneMap(d.DatasetSpecificRenames)
	return &cp
}

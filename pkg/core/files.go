package core

import (
	"sort"

	"go.uber.org/multierr"
)

// Named is implemented by entities whose name doubles as their collection key.
type Named interface {
	SetName(name string)
}

// SettingsFile is the schema of settings*.toml.
type SettingsFile struct {
	DaplaTeam    string   `toml:"dapla_team"`
	ShortName    string   `toml:"short_name"`
	UtdNacekoder []string `toml:"utd_nacekoder,omitempty"`
}

// Validate checks that the required settings are present. Settings may be
// split across files, so call it once all settings sources are merged.
func (s *SettingsFile) Validate() error {
	var errs error
	if s.DaplaTeam == "" {
		errs = multierr.Append(errs, fieldErr("dapla_team", "is required"))
	}
	if s.ShortName == "" {
		errs = multierr.Append(errs, fieldErr("short_name", "is required"))
	}
	return errs
}

// VariablesFile is the schema of variables*.toml.
type VariablesFile struct {
	VariablesSortUnit []string             `toml:"variables_sort_unit,omitempty"`
	Variables         map[string]*Variable `toml:"variables,omitempty"`
}

// Validate validates every variable, in name order.
func (f *VariablesFile) Validate() error {
	var errs error
	for _, name := range sortedKeys(f.Variables) {
		errs = multierr.Append(errs, f.Variables[name].Validate())
	}
	return errs
}

// DatasetsFile is the schema of datasets*.toml.
type DatasetsFile struct {
	Datasets map[string]*Dataset `toml:"datasets,omitempty"`
}

// Validate validates every dataset, in name order.
func (f *DatasetsFile) Validate() error {
	var errs error
	for _, name := range sortedKeys(f.Datasets) {
		errs = multierr.Append(errs, f.Datasets[name].Validate(name))
	}
	return errs
}

// PathsFile is the schema of paths*.toml.
type PathsFile struct {
	Paths map[string]*PathEntry `toml:"paths,omitempty"`
}

// OptionsFile is the schema of options*.toml.
type OptionsFile struct {
	Options *Options `toml:"options,omitempty"`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

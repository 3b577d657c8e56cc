package config

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"go.uber.org/multierr"
)

// globalRegistry is the single registry of cross-reference checks.
var globalRegistry = &Registry{
	checks: make(map[string]CheckDef),
}

// Registry stores registered cross-reference checks.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]CheckDef // keyed by Name
}

// CheckDef is a named cross-reference check.
type CheckDef struct {
	ID          string // stable identifier used for ordering, e.g. "NC03"
	Name        string // e.g. "dataset-variables-defined"
	Group       string // "derivation", "datasets" or "variables"
	Description string
	Check       Check
}

// Check returns every offending key, as dotted paths. An empty result
// means the check passed.
type Check func(cfg *Configuration) []string

// CheckResult is the outcome of one check.
type CheckResult struct {
	Def       CheckDef
	Offenders []string
}

// Passed reports whether the check found no offenders.
func (r CheckResult) Passed() bool { return len(r.Offenders) == 0 }

// Register adds a check to the global registry.
// Call this from init() functions.
func Register(def CheckDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.checks[def.Name] = def
}

// Checks returns all registered checks ordered by ID.
func Checks() []CheckDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	defs := make([]CheckDef, 0, len(globalRegistry.checks))
	for _, def := range globalRegistry.checks {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// LookupCheck returns a check by name.
func LookupCheck(name string) (CheckDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	def, ok := globalRegistry.checks[name]
	return def, ok
}

// RunCheck runs one named check and returns its offenders.
func RunCheck(cfg *Configuration, name string) ([]string, error) {
	def, ok := LookupCheck(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	return def.Check(cfg), nil
}

// Report runs every check, including the derivation cycle check in report
// mode, and returns one result per check.
func Report(cfg *Configuration) []CheckResult {
	defs := Checks()
	results := make([]CheckResult, len(defs))
	for i, def := range defs {
		results[i] = CheckResult{Def: def, Offenders: def.Check(cfg)}
	}
	return results
}

// Validate fails fast with a *CycleError on a derivation cycle. Otherwise it
// runs every check and returns one *CheckError per failing check, combined
// with multierr.
func Validate(cfg *Configuration) error {
	if err := CheckDerivationAcyclic(cfg); err != nil {
		return err
	}
	var errs error
	for _, r := range Report(cfg) {
		if !r.Passed() {
			errs = multierr.Append(errs, &CheckError{Check: r.Def.Name, Offenders: r.Offenders})
		}
	}
	return errs
}

func init() {
	for _, def := range []CheckDef{
		{
			ID: "NC01", Name: "derived-from-acyclic", Group: "derivation",
			Description: "derived_from links must not form a cycle",
			Check:       checkDerivedFromAcyclic,
		},
		{
			ID: "NC02", Name: "derived-from-defined", Group: "derivation",
			Description: "every derived_from name must be a declared variable",
			Check:       checkDerivedFromDefined,
		},
		{
			ID: "NC03", Name: "derived-join-keys-in-derived-from", Group: "derivation",
			Description: "every derived_join_keys name must also be listed in derived_from",
			Check:       checkJoinKeysInDerivedFrom,
		},
		{
			ID: "NC04", Name: "derived-uses-datasets-defined", Group: "derivation",
			Description: "every derived_uses_datasets name must be a declared dataset",
			Check:       checkUsesDatasetsDefined,
		},
		{
			ID: "NC05", Name: "dataset-variables-unique", Group: "datasets",
			Description: "a dataset must not list a variable twice",
			Check:       checkDatasetVariablesUnique,
		},
		{
			ID: "NC06", Name: "dataset-variables-defined", Group: "datasets",
			Description: "variables of datasets owned by the local team must be declared",
			Check:       checkDatasetVariablesDefined,
		},
		{
			ID: "NC07", Name: "dataset-internal-references", Group: "datasets",
			Description: "thresholds_empty, min_values and max_values keys must be variables of the same dataset",
			Check:       checkDatasetInternalReferences,
		},
		{
			ID: "NC08", Name: "renamed-from-unique", Group: "variables",
			Description: "an old name may appear in renamed_from of one variable only",
			Check:       checkRenamedFromUnique,
		},
		{
			ID: "NC09", Name: "units-in-sort-order", Group: "variables",
			Description: "every variable unit must appear in variables_sort_unit",
			Check:       checkUnitsInSortOrder,
		},
		{
			ID: "NC10", Name: "klass-metadata-requires-codelist", Group: "variables",
			Description: "klass_correspondence_to and klass_variant_search_term require klass_codelist",
			Check:       checkKlassMetadataRequiresCodelist,
		},
		{
			ID: "NC11", Name: "klass-requires-length", Group: "variables",
			Description: "variables linked to a codelist or variant must declare length",
			Check:       checkKlassRequiresLength,
		},
	} {
		Register(def)
	}
}

func checkDerivedFromAcyclic(cfg *Configuration) []string {
	if cyclic, path := HasDerivationCycle(cfg); cyclic {
		return []string{path[0]}
	}
	return nil
}

func checkDerivedFromDefined(cfg *Configuration) []string {
	var out []string
	for name, v := range cfg.Variables.All() {
		for _, dep := range v.DerivedFrom {
			if !cfg.Variables.Contains(dep) {
				out = append(out, "variables."+name+".derived_from."+dep)
			}
		}
	}
	return sorted(out)
}

func checkJoinKeysInDerivedFrom(cfg *Configuration) []string {
	var out []string
	for name, v := range cfg.Variables.All() {
		for _, key := range v.DerivedJoinKeys {
			if !slices.Contains(v.DerivedFrom, key) {
				out = append(out, "variables."+name+".derived_join_keys."+key)
			}
		}
	}
	return sorted(out)
}

func checkUsesDatasetsDefined(cfg *Configuration) []string {
	var out []string
	for name, v := range cfg.Variables.All() {
		for _, ds := range v.DerivedUsesDatasets {
			if !cfg.Datasets.Contains(ds) {
				out = append(out, "variables."+name+".derived_uses_datasets."+ds)
			}
		}
	}
	return sorted(out)
}

func checkDatasetVariablesUnique(cfg *Configuration) []string {
	var out []string
	for name, ds := range cfg.Datasets.All() {
		seen := make(map[string]bool, len(ds.Variables))
		for _, v := range ds.Variables {
			if seen[v] {
				out = append(out, "datasets."+name+".variables."+v)
			}
			seen[v] = true
		}
	}
	return sorted(out)
}

// checkDatasetVariablesDefined only applies to datasets owned by the local
// team; other teams declare their variables elsewhere.
func checkDatasetVariablesDefined(cfg *Configuration) []string {
	var out []string
	for name, ds := range cfg.Datasets.All() {
		if ds.Team != cfg.DaplaTeam {
			continue
		}
		for _, v := range ds.Variables {
			if !cfg.Variables.Contains(v) {
				out = append(out, "datasets."+name+".variables."+v)
			}
		}
	}
	return sorted(out)
}

func checkDatasetInternalReferences(cfg *Configuration) []string {
	var out []string
	for name, ds := range cfg.Datasets.All() {
		for _, ref := range []struct {
			field string
			keys  []string
		}{
			{"thresholds_empty", keysOf(ds.ThresholdsEmpty)},
			{"min_values", keysOf(ds.MinValues)},
			{"max_values", keysOf(ds.MaxValues)},
		} {
			for _, k := range ref.keys {
				if !ds.HasVariable(k) {
					out = append(out, "datasets."+name+"."+ref.field+"."+k)
				}
			}
		}
	}
	return sorted(out)
}

func checkRenamedFromUnique(cfg *Configuration) []string {
	owner := make(map[string]string)
	var out []string
	for name, v := range cfg.Variables.All() {
		for _, old := range v.RenamedFrom {
			if _, taken := owner[old]; taken {
				out = append(out, "variables."+name+".renamed_from."+old)
				continue
			}
			owner[old] = name
		}
	}
	return sorted(out)
}

func checkUnitsInSortOrder(cfg *Configuration) []string {
	if len(cfg.VariablesSortUnit) == 0 {
		return nil
	}
	var out []string
	for name, v := range cfg.Variables.All() {
		if !slices.Contains(cfg.VariablesSortUnit, v.Unit) {
			out = append(out, "variables."+name+".unit")
		}
	}
	return sorted(out)
}

func checkKlassMetadataRequiresCodelist(cfg *Configuration) []string {
	var out []string
	for name, v := range cfg.Variables.All() {
		if v.KlassCodelist != nil {
			continue
		}
		if v.KlassCorrespondenceTo != nil {
			out = append(out, "variables."+name+".klass_correspondence_to")
		}
		if v.KlassVariantSearchTerm != "" {
			out = append(out, "variables."+name+".klass_variant_search_term")
		}
	}
	return sorted(out)
}

func checkKlassRequiresLength(cfg *Configuration) []string {
	var out []string
	for name, v := range cfg.Variables.All() {
		if (v.HasCodelist() || v.KlassVariant != nil) && len(v.Length) == 0 {
			out = append(out, "variables."+name+".length")
		}
	}
	return sorted(out)
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sorted(s []string) []string {
	sort.Strings(s)
	return s
}

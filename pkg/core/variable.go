package core

import (
	"strings"

	"go.uber.org/multierr"
)

// UnitOutdated marks a variable that is kept only for backwards
// compatibility. Such variables must carry an OutdatedComment.
const UnitOutdated = "utdatert"

// LabelSuffix is appended to a derived variable's name to form the name of
// its synthesized label variable.
const LabelSuffix = "_label"

// LabelDType is the dtype of synthesized label variables.
const LabelDType = "STRING"

// DTypes lists the accepted logical data types, matched case-insensitively.
var DTypes = []string{"integer", "float", "string", "datetime", "boolean"}

// Variable is a named column definition.
type Variable struct {
	Name                   string            `toml:"name"`
	Unit                   string            `toml:"unit"`
	DType                  string            `toml:"dtype"`
	Length                 []int             `toml:"length,omitempty"`
	KlassCodelist          *int              `toml:"klass_codelist,omitempty"`
	KlassVariant           *int              `toml:"klass_variant,omitempty"`
	KlassVariantSearchTerm string            `toml:"klass_variant_search_term,omitempty"`
	KlassCorrespondenceTo  *int              `toml:"klass_correspondence_to,omitempty"`
	RenamedFrom            StringList        `toml:"renamed_from,omitempty"`
	DerivedFrom            []string          `toml:"derived_from,omitempty"`
	DerivedUsesDatasets    []string          `toml:"derived_uses_datasets,omitempty"`
	DerivedJoinKeys        []string          `toml:"derived_join_keys,omitempty"`
	DerivedValuesPriority  []string          `toml:"derived_values_priority,omitempty"`
	CodelistExtras         map[string]string `toml:"codelist_extras,omitempty"`
	OutdatedComment        string            `toml:"outdated_comment,omitempty"`
	KlassCodelistMetadata  any               `toml:"klass_codelist_metadata,omitempty"`
	KlassVariantMetadata   any               `toml:"klass_variant_metadata,omitempty"`
}

// SetName implements Named. Loaders use it to inject the collection key.
func (v *Variable) SetName(name string) { v.Name = name }

// HasCodelist reports whether the variable links to a classification
// codelist. Zero means "no codelist".
func (v *Variable) HasCodelist() bool {
	return v.KlassCodelist != nil && *v.KlassCodelist > 0
}

// IsDerived reports whether the variable is computed from other variables.
func (v *Variable) IsDerived() bool { return len(v.DerivedFrom) > 0 }

// IsOutdated reports whether the variable belongs to the outdated unit.
func (v *Variable) IsOutdated() bool { return v.Unit == UnitOutdated }

// Label returns the label variable synthesized for a derived variable
// that has a codelist.
func (v *Variable) Label() *Variable {
	return &Variable{
		Name:            v.Name + LabelSuffix,
		Unit:            v.Unit,
		DType:           LabelDType,
		DerivedFrom:     []string{v.Name},
		OutdatedComment: v.OutdatedComment,
	}
}

// Validate checks the variable on its own.
func (v *Variable) Validate() error {
	path := joinPath("variables", v.Name)
	var errs error
	if v.Name == "" {
		errs = multierr.Append(errs, fieldErr(path, "name is required"))
	}
	if v.Unit == "" {
		errs = multierr.Append(errs, fieldErr(joinPath(path, "unit"), "is required"))
	}
	switch {
	case v.DType == "":
		errs = multierr.Append(errs, fieldErr(joinPath(path, "dtype"), "is required"))
	case !validDType(v.DType):
		errs = multierr.Append(errs, fieldErr(joinPath(path, "dtype"),
			"invalid value %q (valid: %s)", v.DType, strings.Join(DTypes, ", ")))
	}
	if v.IsOutdated() && strings.TrimSpace(v.OutdatedComment) == "" {
		errs = multierr.Append(errs, fieldErr(joinPath(path, "outdated_comment"),
			"is required when unit is %q", UnitOutdated))
	}
	if v.KlassCodelist != nil && *v.KlassCodelist < 0 {
		errs = multierr.Append(errs, fieldErr(joinPath(path, "klass_codelist"),
			"must be >= 0, got %d", *v.KlassCodelist))
	}
	if v.KlassVariant != nil && *v.KlassVariant < 1 {
		errs = multierr.Append(errs, fieldErr(joinPath(path, "klass_variant"),
			"must be >= 1, got %d", *v.KlassVariant))
	}
	return errs
}

// Clone returns a deep copy. Opaque metadata values are shared.
func (v *Variable) Clone() *Variable {
	if v == nil {
		return nil
	}
	cp := *v
	cp.Length = cloneSlice(v.Length)
	cp.KlassCodelist = cloneInt(v.KlassCodelist)
	cp.KlassVariant = cloneInt(v.KlassVariant)
	cp.KlassCorrespondenceTo = cloneInt(v.KlassCorrespondenceTo)
	cp.RenamedFrom = cloneSlice(v.RenamedFrom)
	cp.DerivedFrom = cloneSlice(v.DerivedFrom)
	cp.DerivedUsesDatasets = cloneSlice(v.DerivedUsesDatasets)
	cp.DerivedJoinKeys = cloneSlice(v.DerivedJoinKeys)
	cp.DerivedValuesPriority = cloneSlice(v.DerivedValuesPriority)
	cp.CodelistExtras = cloneMap(v.CodelistExtras)
	return &cp
}

func validDType(s string) bool {
	for _, d := range DTypes {
		if strings.EqualFold(s, d) {
			return true
		}
	}
	return false
}

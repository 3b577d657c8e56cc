package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func intPtr(i int) *int { return &i }

func TestVariable_Validate(t *testing.T) {
	tests := []struct {
		name      string
		v         Variable
		wantPaths []string
	}{
		{
			name: "valid",
			v:    Variable{Name: "fnr", Unit: "person", DType: "STRING"},
		},
		{
			name:      "missing unit and dtype",
			v:         Variable{Name: "fnr"},
			wantPaths: []string{"variables.fnr.unit", "variables.fnr.dtype"},
		},
		{
			name:      "unknown dtype",
			v:         Variable{Name: "fnr", Unit: "person", DType: "text"},
			wantPaths: []string{"variables.fnr.dtype"},
		},
		{
			name:      "outdated without comment",
			v:         Variable{Name: "gml", Unit: UnitOutdated, DType: "string"},
			wantPaths: []string{"variables.gml.outdated_comment"},
		},
		{
			name:      "outdated with blank comment",
			v:         Variable{Name: "gml", Unit: UnitOutdated, DType: "string", OutdatedComment: "   "},
			wantPaths: []string{"variables.gml.outdated_comment"},
		},
		{
			name: "outdated with comment",
			v:    Variable{Name: "gml", Unit: UnitOutdated, DType: "string", OutdatedComment: "use ny"},
		},
		{
			name:      "negative codelist",
			v:         Variable{Name: "x", Unit: "u", DType: "integer", KlassCodelist: intPtr(-1)},
			wantPaths: []string{"variables.x.klass_codelist"},
		},
		{
			name: "zero codelist means none",
			v:    Variable{Name: "x", Unit: "u", DType: "integer", KlassCodelist: intPtr(0)},
		},
		{
			name:      "variant below one",
			v:         Variable{Name: "x", Unit: "u", DType: "integer", KlassVariant: intPtr(0)},
			wantPaths: []string{"variables.x.klass_variant"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if len(tt.wantPaths) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var paths []string
			for _, e := range multierr.Errors(err) {
				var fe *FieldError
				require.ErrorAs(t, e, &fe)
				paths = append(paths, fe.Path)
			}
			assert.Equal(t, tt.wantPaths, paths)
		})
	}
}

func TestVariable_Label(t *testing.T) {
	v := &Variable{Name: "utd_land", Unit: "person", DType: "string", KlassCodelist: intPtr(91), OutdatedComment: "c"}
	l := v.Label()

	assert.Equal(t, "utd_land_label", l.Name)
	assert.Equal(t, "person", l.Unit)
	assert.Equal(t, LabelDType, l.DType)
	assert.Equal(t, []string{"utd_land"}, l.DerivedFrom)
	assert.Equal(t, "c", l.OutdatedComment)
	assert.Nil(t, l.KlassCodelist)
}

func TestVariable_CloneIsDeep(t *testing.T) {
	v := &Variable{
		Name:           "a",
		Length:         []int{2},
		KlassCodelist:  intPtr(91),
		DerivedFrom:    []string{"b"},
		CodelistExtras: map[string]string{"1": "x"},
	}
	c := v.Clone()
	c.Length[0] = 3
	*c.KlassCodelist = 131
	c.DerivedFrom[0] = "z"
	c.CodelistExtras["1"] = "y"

	assert.Equal(t, []int{2}, v.Length)
	assert.Equal(t, 91, *v.KlassCodelist)
	assert.Equal(t, []string{"b"}, v.DerivedFrom)
	assert.Equal(t, "x", v.CodelistExtras["1"])
}

func TestStringList_UnmarshalText(t *testing.T) {
	var l StringList
	require.NoError(t, l.UnmarshalText([]byte("old")))
	assert.Equal(t, StringList{"old"}, l)
	assert.True(t, l.Contains("old"))
}

func TestSettingsFile_Validate(t *testing.T) {
	s := &SettingsFile{}
	errs := multierr.Errors(s.Validate())
	assert.Len(t, errs, 2)

	s = &SettingsFile{DaplaTeam: "utd-nudb", ShortName: "nudb"}
	assert.NoError(t, s.Validate())
}

func TestDataset_Validate(t *testing.T) {
	d := &Dataset{Team: "utd-nudb", ThresholdsEmpty: map[string]float64{"snr": -1}}
	err := d.Validate("igang")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "datasets.igang.thresholds_empty.snr", fe.Path)

	// team is optional; a dataset without one counts as external
	d = &Dataset{Variables: []string{"fnr"}}
	assert.NoError(t, d.Validate("testset"))
}

package config

import (
	"testing"

	"github.com/nudb/nudbconfig/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsSource() *Source {
	return NewSource(CategorySettings, "settings", map[string]any{
		"dapla_team": "utd-nudb",
		"short_name": "nudb",
	})
}

// fromTrees builds an unchecked configuration from in-memory variables and
// datasets tables.
func fromTrees(t *testing.T, variables, datasets map[string]any) *Configuration {
	t.Helper()
	set := Sources{}
	set.Add(settingsSource())
	if variables != nil {
		set.Add(NewSource(CategoryVariables, "variables", variables))
	}
	if datasets != nil {
		set.Add(NewSource(CategoryDatasets, "datasets", map[string]any{"datasets": datasets}))
	}
	cfg, err := FromSources(set, WithLogger(testutil.NewTestLogger(t)), WithoutCrossChecks())
	require.NoError(t, err)
	return cfg
}

func variable(unit string, kv ...any) map[string]any {
	m := map[string]any{"unit": unit, "dtype": "STRING"}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func TestChecks_Registry(t *testing.T) {
	defs := Checks()
	require.Len(t, defs, 11)
	assert.Equal(t, "derived-from-acyclic", defs[0].Name)

	for _, def := range defs {
		got, ok := LookupCheck(def.Name)
		require.True(t, ok, def.Name)
		assert.Equal(t, def.ID, got.ID)
		assert.NotEmpty(t, def.Description)
	}

	_, err := RunCheck(&Configuration{}, "no-such-check")
	assert.ErrorIs(t, err, ErrUnknownCheck)
}

func TestChecks(t *testing.T) {
	tests := []struct {
		name      string
		check     string
		variables map[string]any
		datasets  map[string]any
		want      []string
	}{
		{
			name:  "derived from undeclared variable",
			check: "derived-from-defined",
			variables: map[string]any{
				"variables": map[string]any{
					"a": variable("person", "derived_from", []any{"b", "c"}),
					"b": variable("person"),
				},
			},
			want: []string{"variables.a.derived_from.c"},
		},
		{
			name:  "join key outside derived_from",
			check: "derived-join-keys-in-derived-from",
			variables: map[string]any{
				"variables": map[string]any{
					"a":   variable("person", "derived_from", []any{"fnr"}, "derived_join_keys", []any{"fnr", "snr"}),
					"fnr": variable("person"),
				},
			},
			want: []string{"variables.a.derived_join_keys.snr"},
		},
		{
			name:  "uses undeclared dataset",
			check: "derived-uses-datasets-defined",
			variables: map[string]any{
				"variables": map[string]any{
					"a": variable("person", "derived_uses_datasets", []any{"igang", "avsluttet"}),
				},
			},
			datasets: map[string]any{
				"igang": map[string]any{"team": "utd-nudb"},
			},
			want: []string{"variables.a.derived_uses_datasets.avsluttet"},
		},
		{
			name:  "duplicate dataset variable",
			check: "dataset-variables-unique",
			variables: map[string]any{
				"variables": map[string]any{"fnr": variable("person")},
			},
			datasets: map[string]any{
				"igang": map[string]any{"team": "utd-nudb", "variables": []any{"fnr", "fnr", "fnr"}},
			},
			want: []string{"datasets.igang.variables.fnr", "datasets.igang.variables.fnr"},
		},
		{
			name:  "local dataset with undeclared variable",
			check: "dataset-variables-defined",
			variables: map[string]any{
				"variables": map[string]any{"fnr": variable("person")},
			},
			datasets: map[string]any{
				"igang":   map[string]any{"team": "utd-nudb", "variables": []any{"fnr", "snr"}},
				"ekstern": map[string]any{"team": "utd-vgs", "variables": []any{"eget_felt"}},
			},
			want: []string{"datasets.igang.variables.snr"},
		},
		{
			name:  "external dataset still checked internally",
			check: "dataset-internal-references",
			datasets: map[string]any{
				"ekstern": map[string]any{
					"team":             "utd-vgs",
					"variables":        []any{"a"},
					"thresholds_empty": map[string]any{"a": 0.1, "b": 0.2},
					"min_values":       map[string]any{"c": "1"},
					"max_values":       map[string]any{"a": "9"},
				},
			},
			want: []string{"datasets.ekstern.min_values.c", "datasets.ekstern.thresholds_empty.b"},
		},
		{
			name:  "old name claimed twice",
			check: "renamed-from-unique",
			variables: map[string]any{
				"variables": map[string]any{
					"a": variable("person", "renamed_from", "gammel"),
					"b": variable("person", "renamed_from", []any{"gammel", "eldre"}),
				},
			},
			want: []string{"variables.b.renamed_from.gammel"},
		},
		{
			name:  "unit missing from sort order",
			check: "units-in-sort-order",
			variables: map[string]any{
				"variables_sort_unit": []any{"person"},
				"variables": map[string]any{
					"a": variable("person"),
					"b": variable("kurs"),
				},
			},
			want: []string{"variables.b.unit"},
		},
		{
			name:  "klass metadata without codelist",
			check: "klass-metadata-requires-codelist",
			variables: map[string]any{
				"variables": map[string]any{
					"a": variable("person", "klass_correspondence_to", int64(36)),
					"b": variable("person", "klass_variant_search_term", "Fylker"),
					"c": variable("person", "klass_codelist", int64(0), "klass_correspondence_to", int64(36)),
				},
			},
			want: []string{"variables.a.klass_correspondence_to", "variables.b.klass_variant_search_term"},
		},
		{
			name:  "codelist without length",
			check: "klass-requires-length",
			variables: map[string]any{
				"variables": map[string]any{
					"a": variable("person", "klass_codelist", int64(91)),
					"b": variable("person", "klass_variant", int64(2)),
					"c": variable("person", "klass_codelist", int64(0)),
					"d": variable("person", "klass_codelist", int64(91), "length", []any{int64(3)}),
				},
			},
			want: []string{"variables.a.length", "variables.b.length"},
		},
		{
			name:  "acyclic derivations pass",
			check: "derived-from-acyclic",
			variables: map[string]any{
				"variables": map[string]any{
					"a": variable("person", "derived_from", []any{"b"}),
					"b": variable("person"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fromTrees(t, tt.variables, tt.datasets)
			got, err := RunCheck(cfg, tt.check)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasDerivationCycle_ReportMode(t *testing.T) {
	set := Sources{}
	set.Add(settingsSource())
	set.Add(NewSource(CategoryVariables, "variables", map[string]any{
		"variables": map[string]any{
			"a": variable("person", "derived_from", []any{"b"}),
			"b": variable("person", "derived_from", []any{"c", "d"}),
			"c": variable("person", "derived_from", []any{"e"}),
			"e": variable("person", "derived_from", []any{"a"}),
		},
	}))
	_, err := FromSources(set, WithLogger(testutil.NewTestLogger(t)))
	var ce *CycleError
	require.ErrorAs(t, err, &ce)

	// Report mode on the same shape, built without the cycle check.
	cfg := fromTrees(t, map[string]any{
		"variables": map[string]any{
			"a": variable("person", "derived_from", []any{"b"}),
			"b": variable("person", "derived_from", []any{"c", "d"}),
			"c": variable("person", "derived_from", []any{"e"}),
			"e": variable("person", "derived_from", []any{"f"}),
		},
	}, nil)
	cyclic, path := HasDerivationCycle(cfg)
	assert.False(t, cyclic)
	assert.Nil(t, path)

	e, _ := cfg.Variable("e")
	e.DerivedFrom = []string{"a"}
	cyclic, path = HasDerivationCycle(cfg)
	assert.True(t, cyclic)
	assert.Equal(t, []string{"a", "b", "c", "e", "a"}, path)
	offenders, err := RunCheck(cfg, "derived-from-acyclic")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, offenders)
}

func TestReport(t *testing.T) {
	cfg := fromTrees(t, map[string]any{
		"variables": map[string]any{"fnr": variable("person")},
	}, map[string]any{
		"igang": map[string]any{"team": "utd-nudb", "variables": []any{"fnr", "snr"}},
	})

	results := Report(cfg)
	require.Len(t, results, len(Checks()))
	failed := 0
	for _, r := range results {
		if !r.Passed() {
			failed++
			assert.Equal(t, "dataset-variables-defined", r.Def.Name)
		}
	}
	assert.Equal(t, 1, failed)
}

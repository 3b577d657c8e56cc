package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		file string
		want Category
		ok   bool
	}{
		{"variables.toml", CategoryVariables, true},
		{"variables_derived.toml", CategoryVariables, true},
		{"datasets_extra.toml", CategoryDatasets, true},
		{"paths.toml", CategoryPaths, true},
		{"settings.toml", CategorySettings, true},
		{"options.toml", CategoryOptions, true},
		{"variables.yaml", "", false},
		{"readme.toml", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := CategoryOf(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscover_LexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "variables_derived.toml", "[variables.b]\nunit = \"person\"\n")
	writeFile(t, dir, "variables.toml", "[variables.a]\nunit = \"person\"\n")
	writeFile(t, dir, "settings.toml", "dapla_team = \"utd-nudb\"\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "variables_dir.toml"), 0o755))

	set, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	vars := set[CategoryVariables]
	require.Len(t, vars, 2)
	assert.Equal(t, "variables", vars[0].Name())
	assert.Equal(t, "variables_derived", vars[1].Name())
	assert.Len(t, set[CategorySettings], 1)
	assert.True(t, HasDeclarations(dir))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, HasDeclarations(filepath.Join(t.TempDir(), "nope")))
}

func TestParse_DocumentOrder(t *testing.T) {
	src, err := Parse("variables.toml", CategoryVariables, []byte(`
[variables.zeta]
unit = "person"

[variables.alpha]
unit = "person"

[variables.mid]
unit = "kurs"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, src.Order("variables"))
	assert.Equal(t, "person", src.Table("variables", "zeta")["unit"])
	assert.Nil(t, src.Table("variables", "missing"))
}

func TestParse_Error(t *testing.T) {
	_, err := Parse("bad.toml", CategoryVariables, []byte("[variables\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.toml", pe.Path)
}

func TestFromMap_SortedOrder(t *testing.T) {
	src := FromMap("", CategoryPaths, map[string]any{
		"paths": map[string]any{"b": map[string]any{}, "a": map[string]any{}},
	})
	assert.Equal(t, MemoryPath, src.Path)
	assert.Equal(t, []string{"a", "b"}, src.Order("paths"))
}

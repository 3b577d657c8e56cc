package dotmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_InsertionOrder(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Set("b", 1))
	require.NoError(t, m.Set("a", 2))
	require.NoError(t, m.Set("b", 3))

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, []any{3, 2}, m.Values())
	assert.Equal(t, []Item{{"b", 3}, {"a", 2}}, m.Items())

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	assert.Equal(t, []string{"a"}, m.Keys())
}

func TestMap_ZeroValue(t *testing.T) {
	var m Map
	assert.Equal(t, 0, m.Len())
	require.NoError(t, m.Set("x", true))
	assert.True(t, m.Contains("x"))
}

func TestMap_CloneIsDeep(t *testing.T) {
	m := MapOf(map[string]any{
		"list":   []any{"a"},
		"nested": map[string]any{"k": "v"},
	})
	c := m.Clone()

	c.values["list"].([]any)[0] = "changed"
	c.values["nested"].(map[string]any)["k"] = "changed"

	assert.Equal(t, []any{"a"}, m.values["list"])
	assert.Equal(t, map[string]any{"k": "v"}, m.values["nested"])
}

func TestLookup(t *testing.T) {
	m := MapOf(map[string]any{"a": 1, "b": 2})

	tests := []struct {
		name    string
		key     any
		want    any
		wantErr error
	}{
		{name: "string key", key: "b", want: 2},
		{name: "int key", key: 0, want: 1},
		{name: "negative int key", key: -1, want: 2},
		{name: "missing key", key: "c", wantErr: ErrKeyNotFound},
		{name: "out of range", key: 5, wantErr: ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(m, tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Lookup(m, 1.5)
	var kte *KeyTypeError
	assert.ErrorAs(t, err, &kte)
}

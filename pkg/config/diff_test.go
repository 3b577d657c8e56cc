package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	cfg, _ := loadBase(t)
	assert.Empty(t, Diff(cfg, cfg.Clone()))

	merged, err := cfg.MergeTOMLs(externalDir)
	require.NoError(t, err)

	changes := Diff(cfg, merged)
	byPath := make(map[string]Change, len(changes))
	var paths []string
	for _, c := range changes {
		byPath[c.Path] = c
		paths = append(paths, c.Path)
	}

	assert.IsIncreasing(t, paths)
	assert.Equal(t, ChangeAdded, byPath["variables.fullfort_gk"].Kind)
	assert.Equal(t, ChangeAdded, byPath["datasets.igang"].Kind)
	assert.Equal(t, ChangeAdded, byPath["paths.on_prem"].Kind)
	assert.Equal(t, ChangeAdded, byPath["paths.local_daplalab.delt_utdanning"].Kind)

	removed := byPath["variables.snr_mrk"]
	assert.Equal(t, ChangeRemoved, removed.Kind)
	assert.Nil(t, removed.After)

	length := byPath["variables.fnr.length"]
	assert.Equal(t, ChangeModified, length.Kind)
	assert.Equal(t, []any{11}, length.Before)
	assert.Equal(t, []any{11, 9}, length.After)

	assert.Equal(t, ChangeModified, byPath["datasets.eksamen_aggregated.thresholds_empty.snr"].Kind)
	assert.NotContains(t, byPath, "variables.fnr.unit")
}

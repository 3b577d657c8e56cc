package config

import (
	"reflect"
	"sort"

	"github.com/nudb/nudbconfig/pkg/dotmap"
)

// ChangeKind classifies one difference between two configurations.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// Change is one difference found by Diff. Before is nil for additions and
// After is nil for removals.
type Change struct {
	Path   string
	Kind   ChangeKind
	Before any
	After  any
}

// Diff returns the differences between two configurations, sorted by path.
// A key present on one side only is reported once at the shallowest path
// where it appears; lists are compared as a whole.
func Diff(before, after *Configuration) []Change {
	var out []Change
	diffPlain(&out, "", asTable(dotmap.ToPlain(before)), asTable(dotmap.ToPlain(after)))
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func diffPlain(out *[]Change, prefix string, a, b map[string]any) {
	for key, av := range a {
		path := joinKey(prefix, key)
		bv, ok := b[key]
		if !ok {
			*out = append(*out, Change{Path: path, Kind: ChangeRemoved, Before: av})
			continue
		}
		am, aTable := av.(map[string]any)
		bm, bTable := bv.(map[string]any)
		if aTable && bTable {
			diffPlain(out, path, am, bm)
			continue
		}
		if !reflect.DeepEqual(av, bv) {
			*out = append(*out, Change{Path: path, Kind: ChangeModified, Before: av, After: bv})
		}
	}
	for key, bv := range b {
		if _, ok := a[key]; !ok {
			*out = append(*out, Change{Path: joinKey(prefix, key), Kind: ChangeAdded, After: bv})
		}
	}
}

func asTable(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

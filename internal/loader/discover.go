package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of declaration files.
const Extension = ".toml"

// Set groups sources by category. Each slice is in lexical file order.
type Set map[Category][]*Source

// Len returns the total number of sources.
func (s Set) Len() int {
	n := 0
	for _, srcs := range s {
		n += len(srcs)
	}
	return n
}

// Add appends src under its category.
func (s Set) Add(src *Source) {
	s[src.Category] = append(s[src.Category], src)
}

// CategoryOf returns the category of a declaration file name, matched by
// prefix: "variables_derived.toml" is a variables source.
func CategoryOf(filename string) (Category, bool) {
	base := filepath.Base(filename)
	if filepath.Ext(base) != Extension {
		return "", false
	}
	for _, c := range Categories {
		if strings.HasPrefix(base, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Discover parses every declaration file directly inside dir. Files that do
// not match a category prefix are ignored.
func Discover(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read declaration directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	set := make(Set)
	for _, name := range names {
		category, ok := CategoryOf(name)
		if !ok {
			continue
		}
		src, err := ParseFile(filepath.Join(dir, name), category)
		if err != nil {
			return nil, err
		}
		set.Add(src)
	}
	return set, nil
}

// HasDeclarations reports whether dir directly contains a declaration file.
func HasDeclarations(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if _, ok := CategoryOf(e.Name()); ok && !e.IsDir() {
			return true
		}
	}
	return false
}

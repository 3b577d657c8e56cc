// Package loader discovers NUDB declaration files and parses them into
// ordered key-value trees.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Category is the kind of declarations a source holds. It is derived from
// the file name prefix.
type Category string

// Categories.
const (
	CategorySettings  Category = "settings"
	CategoryVariables Category = "variables"
	CategoryDatasets  Category = "datasets"
	CategoryPaths     Category = "paths"
	CategoryOptions   Category = "options"
)

// Categories lists every category in the order they are merged.
var Categories = []Category{
	CategorySettings,
	CategoryVariables,
	CategoryDatasets,
	CategoryPaths,
	CategoryOptions,
}

// MemoryPath is the Path of sources that were not read from a file.
const MemoryPath = "<memory>"

// ParseError reports a declaration file that is not valid TOML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Source is one parsed declaration file.
type Source struct {
	Path     string
	Category Category
	Data     map[string]any

	keys []toml.Key // document order, nil for in-memory sources
}

// Name returns the file name without directory and extension,
// e.g. "variables_derived".
func (s *Source) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Order returns the child keys of the table at prefix in document order.
// Keys not seen in the document (in-memory sources) follow in sorted order.
func (s *Source) Order(prefix ...string) []string {
	table := s.Table(prefix...)
	seen := make(map[string]bool, len(table))
	var out []string
	for _, k := range s.keys {
		if len(k) <= len(prefix) || !hasPrefix(k, prefix) {
			continue
		}
		child := k[len(prefix)]
		if _, ok := table[child]; !ok || seen[child] {
			continue
		}
		seen[child] = true
		out = append(out, child)
	}
	var rest []string
	for k := range table {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Table returns the table at prefix, or nil when it is missing or not a table.
func (s *Source) Table(prefix ...string) map[string]any {
	cur := s.Data
	for _, p := range prefix {
		next, ok := cur[p].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func hasPrefix(k toml.Key, prefix []string) bool {
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

// Parse parses TOML content. path is only used for naming and errors.
func Parse(path string, category Category, content []byte) (*Source, error) {
	data := make(map[string]any)
	md, err := toml.Decode(string(content), &data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &Source{Path: path, Category: category, Data: data, keys: md.Keys()}, nil
}

// ParseFile reads and parses a declaration file.
func ParseFile(path string, category Category) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, category, content)
}

// FromMap wraps an already parsed tree. Its keys are ordered by name.
func FromMap(name string, category Category, data map[string]any) *Source {
	path := MemoryPath
	if name != "" {
		path = name
	}
	if data == nil {
		data = make(map[string]any)
	}
	return &Source{Path: path, Category: category, Data: data}
}

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nudb/nudbconfig/internal/loader"
	"github.com/nudb/nudbconfig/pkg/core"
	"github.com/nudb/nudbconfig/pkg/dotmap"
)

// Load reads every declaration file in dir and builds a Configuration.
func Load(dir string, opts ...Option) (*Configuration, error) {
	set, err := loader.Discover(dir)
	if err != nil {
		return nil, err
	}
	return FromSources(set, opts...)
}

// FromSources builds a Configuration from parsed declaration sources.
//
// Within a category, sources are applied in order and a later source
// replaces entries of the same name declared earlier. After all sources
// are applied, label variables are synthesized, codelist extras are added,
// and the configuration is checked: a derivation cycle is always fatal,
// the batched cross-reference checks unless WithoutCrossChecks is given.
func FromSources(set Sources, opts ...Option) (*Configuration, error) {
	o := newOptions(opts)
	cfg := newConfiguration(o)

	for _, category := range loader.Categories {
		for _, src := range set[category] {
			if err := cfg.loadSource(src); err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.Settings().Validate(); err != nil {
		return nil, &SchemaError{Category: CategorySettings, Err: err}
	}

	cfg.synthesizeLabels(set[CategoryVariables])
	cfg.applyCodelistExtras(nil)

	if o.skipChecks {
		if err := CheckDerivationAcyclic(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) loadSource(src *Source) error {
	allowed := topLevelKeys[src.Category]
	if allowed == nil {
		return fmt.Errorf("unknown declaration category %q", src.Category)
	}
	root := c.Record()
	for _, key := range src.Order() {
		val := src.Data[key]
		if !slices.Contains(allowed, key) {
			c.warnUnknown(src, key)
			continue
		}
		var err error
		switch key {
		case "variables":
			err = c.loadVariables(src, val)
		case "datasets":
			err = c.loadDatasets(src, val)
		case "paths":
			err = c.loadPaths(src, val)
		case "options":
			err = c.loadOptions(src, val)
		default:
			if serr := root.Set(key, val); serr != nil {
				err = schemaError(src, key, serr)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Configuration) loadVariables(src *Source, raw any) error {
	table, err := entryTable(src, "variables", raw, true)
	if err != nil {
		return err
	}
	var file core.VariablesFile
	if err := c.decodeFile(src, map[string]any{"variables": table}, &file); err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return schemaError(src, "", err)
	}
	for _, name := range src.Order("variables") {
		putEntry(c, src, "variables", c.Variables, name, file.Variables[name])
	}
	return nil
}

func (c *Configuration) loadDatasets(src *Source, raw any) error {
	table, err := entryTable(src, "datasets", raw, false)
	if err != nil {
		return err
	}
	var file core.DatasetsFile
	if err := c.decodeFile(src, map[string]any{"datasets": table}, &file); err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return schemaError(src, "", err)
	}
	for _, name := range src.Order("datasets") {
		putEntry(c, src, "datasets", c.Datasets, name, file.Datasets[name])
	}
	return nil
}

func (c *Configuration) loadPaths(src *Source, raw any) error {
	table, err := entryTable(src, "paths", raw, false)
	if err != nil {
		return err
	}
	var file core.PathsFile
	if err := c.decodeFile(src, map[string]any{"paths": table}, &file); err != nil {
		return err
	}
	for _, name := range src.Order("paths") {
		putEntry(c, src, "paths", c.Paths, name, file.Paths[name])
	}
	return nil
}

func (c *Configuration) loadOptions(src *Source, raw any) error {
	table, ok := raw.(map[string]any)
	if !ok {
		return schemaError(src, "options", fmt.Errorf("expected a table, got %T", raw))
	}
	rec := dotmap.NewRecord(c.Options)
	for _, key := range src.Order("options") {
		path := "options." + key
		if !rec.HasField(key) {
			c.warnUnknown(src, path)
			continue
		}
		if err := rec.Set(key, table[key]); err != nil {
			return schemaError(src, path, err)
		}
	}
	return nil
}

// putEntry stores one entry, warning when it replaces an entry from an
// earlier source.
func putEntry[T any](c *Configuration, src *Source, collection string, coll *dotmap.Collection[T], name string, v *T) {
	if coll.Contains(name) {
		c.logger.Warn("declaration replaced by later source",
			"path", collection+"."+name,
			"key", name,
			"source", src.Path,
			"category", string(src.Category))
	}
	coll.Put(name, v)
}

// decodeFile decodes a container tree into a file schema, warning about
// keys that match no field.
func (c *Configuration) decodeFile(src *Source, tree map[string]any, out any) error {
	unused, err := dotmap.Decode(tree, out)
	if err != nil {
		return schemaError(src, "", err)
	}
	for _, path := range unused {
		c.warnUnknown(src, path)
	}
	return nil
}

func (c *Configuration) warnUnknown(src *Source, path string) {
	c.logger.Warn("unknown key ignored",
		"path", path,
		"key", lastSegment(path),
		"source", src.Path,
		"category", string(src.Category))
}

// entryTable checks that raw is a table of tables. With injectName, each
// entry lacking a name gets its key as name.
func entryTable(src *Source, key string, raw any, injectName bool) (map[string]any, error) {
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, schemaError(src, key, fmt.Errorf("expected a table, got %T", raw))
	}
	out := make(map[string]any, len(table))
	for name, entry := range table {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, schemaError(src, key+"."+name, fmt.Errorf("expected a table, got %T", entry))
		}
		if injectName {
			if _, has := fields["name"]; !has {
				fields = withKey(fields, "name", name)
			}
		}
		out[name] = fields
	}
	return out, nil
}

// synthesizeLabels adds a "<name>_label" variable for every variable of
// the derived source that links to a codelist, unless one already exists.
func (c *Configuration) synthesizeLabels(srcs []*Source) {
	for _, src := range srcs {
		if src.Name() != c.derivedSource {
			continue
		}
		for _, name := range src.Order("variables") {
			v, ok := c.Variables.Entry(name)
			if !ok || !v.HasCodelist() {
				continue
			}
			label := name + core.LabelSuffix
			if c.Variables.Contains(label) {
				continue
			}
			c.Variables.Put(label, v.Label())
		}
	}
}

func schemaError(src *Source, path string, err error) *SchemaError {
	return &SchemaError{Category: src.Category, Source: src.Path, Path: path, Err: err}
}

func withKey(m map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, ".")+1:]
}

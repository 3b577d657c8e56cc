package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/nudb/nudbconfig/pkg/dotmap"
)

// DeleteSentinel is the string value, matched case-insensitively, that
// removes a key or entry when merged. A nil value in an in-code tree has
// the same effect.
const DeleteSentinel = "none"

// IsDeleteSentinel reports whether v requests deletion.
func IsDeleteSentinel(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.EqualFold(s, DeleteSentinel)
}

// merger applies one override source.
type merger struct {
	logger *slog.Logger
	src    *Source
}

// target is one mergeable shape: a typed record, a typed collection, or a
// plain mapping field.
type target interface {
	merge(m *merger, data map[string]any, path []string) error
}

// recordTarget merges into declared fields. allowed, when set, restricts
// which fields may be written.
type recordTarget struct {
	rec     *dotmap.Record
	allowed []string
}

// collectionTarget merges entries into a named collection.
type collectionTarget struct {
	entries dotmap.Entries
}

// mappingTarget merges keys into a map-typed field of a record.
type mappingTarget struct {
	rec   *dotmap.Record
	field string
}

// targetFor inspects the declared type of field key and returns the target
// to recurse into, or nil for fields that are replaced wholesale.
func targetFor(rec *dotmap.Record, key string) target {
	f, ok := rec.Field(key)
	if !ok {
		return nil
	}
	switch f.Kind() {
	case reflect.Pointer:
		if f.IsNil() {
			return nil
		}
		if e, ok := f.Interface().(dotmap.Entries); ok {
			return collectionTarget{entries: e}
		}
		if f.Elem().Kind() == reflect.Struct {
			return recordTarget{rec: dotmap.NewRecord(f.Interface())}
		}
	case reflect.Map:
		return mappingTarget{rec: rec, field: key}
	}
	return nil
}

func (t recordTarget) merge(m *merger, data map[string]any, path []string) error {
	for _, key := range m.order(data, path) {
		val := data[key]
		kpath := appendPath(path, key)
		if !t.rec.HasField(key) || (t.allowed != nil && !slices.Contains(t.allowed, key)) {
			m.warn("unknown key ignored", kpath)
			continue
		}
		sub := targetFor(t.rec, key)
		if IsDeleteSentinel(val) {
			switch sub.(type) {
			case collectionTarget, recordTarget:
				return m.schemaError(kpath, fmt.Errorf("%s cannot be deleted as a whole", key))
			}
			t.rec.Delete(key)
			continue
		}
		if table, ok := val.(map[string]any); ok && sub != nil {
			if err := sub.merge(m, table, kpath); err != nil {
				return err
			}
			continue
		}
		had := t.rec.Contains(key)
		changed, err := t.rec.Assign(key, val)
		if err != nil {
			return m.schemaError(kpath, err)
		}
		if had && !changed {
			m.warn("redundant override", kpath)
		}
	}
	return nil
}

func (t collectionTarget) merge(m *merger, data map[string]any, path []string) error {
	for _, name := range m.order(data, path) {
		val := data[name]
		epath := appendPath(path, name)
		if IsDeleteSentinel(val) {
			if !t.entries.Delete(name) {
				m.warn("entry to delete not found", epath)
			}
			continue
		}
		table, ok := val.(map[string]any)
		if !ok {
			return m.schemaError(epath, fmt.Errorf("expected a table, got %T", val))
		}
		if rec, exists := t.entries.EntryRecord(name); exists {
			if err := (recordTarget{rec: rec}).merge(m, table, epath); err != nil {
				return err
			}
			if err := validateEntry(name, rec.Interface()); err != nil {
				return m.schemaError(epath, err)
			}
			continue
		}
		if err := m.insert(t.entries, name, table, epath); err != nil {
			return err
		}
	}
	return nil
}

// insert builds a new entry from table. Entities with a name field get the
// entry key as name unless the table sets one.
func (m *merger) insert(entries dotmap.Entries, name string, table map[string]any, path []string) error {
	ptr := entries.NewEntry()
	if n, ok := ptr.(interface{ SetName(string) }); ok {
		n.SetName(name)
	}
	rec := dotmap.NewRecord(ptr)
	for _, key := range m.order(table, path) {
		val := table[key]
		kpath := appendPath(path, key)
		if !rec.HasField(key) {
			m.warn("unknown key ignored", kpath)
			continue
		}
		if IsDeleteSentinel(val) {
			continue
		}
		if err := rec.Set(key, val); err != nil {
			return m.schemaError(kpath, err)
		}
	}
	if err := validateEntry(name, ptr); err != nil {
		return m.schemaError(path, err)
	}
	return entries.PutEntry(name, ptr)
}

func (t mappingTarget) merge(m *merger, data map[string]any, path []string) error {
	f, _ := t.rec.Field(t.field)
	elem := f.Type().Elem()

	cur := dotmap.NewMap()
	if !f.IsNil() {
		keys := make([]string, 0, f.Len())
		for _, k := range f.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			_ = cur.Set(k, f.MapIndex(reflect.ValueOf(k).Convert(f.Type().Key())).Interface())
		}
	}

	for _, key := range m.order(data, path) {
		val := data[key]
		kpath := appendPath(path, key)
		if IsDeleteSentinel(val) {
			cur.Delete(key)
			continue
		}
		nv, err := dotmap.DecodeValue(val, elem)
		if err != nil {
			return m.schemaError(kpath, err)
		}
		if old, ok := cur.Get(key); ok && reflect.DeepEqual(old, nv.Interface()) {
			m.warn("redundant override", kpath)
		}
		_ = cur.Set(key, nv.Interface())
	}

	if err := t.rec.Set(t.field, cur.ToMap()); err != nil {
		return m.schemaError(path, err)
	}
	return nil
}

// order returns the keys of data in source document order.
func (m *merger) order(data map[string]any, path []string) []string {
	seen := make(map[string]bool, len(data))
	out := make([]string, 0, len(data))
	for _, k := range m.src.Order(path...) {
		if _, ok := data[k]; ok && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	var rest []string
	for k := range data {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (m *merger) warn(msg string, path []string) {
	m.logger.Warn(msg,
		"path", strings.Join(path, "."),
		"key", path[len(path)-1],
		"source", m.src.Path,
		"category", string(m.src.Category))
}

func (m *merger) schemaError(path []string, err error) *SchemaError {
	return schemaError(m.src, strings.Join(path, "."), err)
}

// validateEntry runs the entity's own schema validation.
func validateEntry(name string, entry any) error {
	switch v := entry.(type) {
	case interface{ Validate() error }:
		return v.Validate()
	case interface{ Validate(string) error }:
		return v.Validate(name)
	}
	return nil
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

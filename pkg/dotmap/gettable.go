package dotmap

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Item is a single key-value pair of a Gettable.
type Item struct {
	Key   string
	Value any
}

// Gettable is the read side shared by records, mappings and collections.
type Gettable interface {
	// Get returns the value stored under key and whether it is present.
	Get(key string) (any, bool)
	Contains(key string) bool
	Keys() []string
	Values() []any
	Items() []Item
	Len() int
}

// Setter is implemented by containers that accept keyed writes.
type Setter interface {
	Set(key string, value any) error
	Delete(key string) bool
}

// GetOr returns the value under key, or def when the key is absent.
func GetOr(g Gettable, key string, def any) any {
	if v, ok := g.Get(key); ok {
		return v
	}
	return def
}

// Index returns the i-th item in key order. Negative indexes count from the end.
func Index(g Gettable, i int) (Item, error) {
	keys := g.Keys()
	if i < 0 {
		i += len(keys)
	}
	if i < 0 || i >= len(keys) {
		return Item{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(keys))
	}
	v, _ := g.Get(keys[i])
	return Item{Key: keys[i], Value: v}, nil
}

// Lookup is the subscript form of access: a string key must be present and an
// int key selects by position. Any other key type yields a *KeyTypeError.
func Lookup(g Gettable, key any) (any, error) {
	switch k := key.(type) {
	case string:
		v, ok := g.Get(k)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, k)
		}
		return v, nil
	case int:
		item, err := Index(g, k)
		if err != nil {
			return nil, err
		}
		return item.Value, nil
	default:
		return nil, &KeyTypeError{Key: key}
	}
}

// Wrap returns a Gettable view of v when v is a container: a Gettable itself,
// a pointer to a struct, or a map keyed by strings.
func Wrap(v any) (Gettable, bool) {
	if v == nil {
		return nil, false
	}
	if g, ok := v.(Gettable); ok {
		return g, true
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		return NewRecord(v), true
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		return mapView{rv: rv}, true
	}
	return nil, false
}

// GetPath walks a dotted path from g. Numeric segments index into lists.
func GetPath(g Gettable, path string) (any, error) {
	if path == "" {
		return g, nil
	}
	var cur any = g
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		walked := strings.Join(segs[:i+1], ".")
		if c, ok := Wrap(cur); ok {
			v, found := c.Get(seg)
			if !found {
				return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, walked)
			}
			cur = v
			continue
		}
		rv := reflect.ValueOf(cur)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("%w: %q is not a container", ErrKeyNotFound, strings.Join(segs[:i], "."))
		}
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, &KeyTypeError{Key: seg}
		}
		if n < 0 {
			n += rv.Len()
		}
		if n < 0 || n >= rv.Len() {
			return nil, fmt.Errorf("%w: %q", ErrIndexOutOfRange, walked)
		}
		cur = rv.Index(n).Interface()
	}
	return cur, nil
}

// ToPlain converts v into nested map[string]any and []any values suitable
// for generic encoders. Absent record fields are omitted.
func ToPlain(v any) any {
	if v == nil {
		return nil
	}
	if g, ok := Wrap(v); ok {
		out := make(map[string]any, g.Len())
		for _, it := range g.Items() {
			out[it.Key] = ToPlain(it.Value)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = ToPlain(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return ToPlain(rv.Elem().Interface())
	}
	return v
}

// mapView is a read-only Gettable over a reflected map with string keys.
type mapView struct {
	rv reflect.Value
}

func (m mapView) Get(key string) (any, bool) {
	v := m.rv.MapIndex(reflect.ValueOf(key).Convert(m.rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func (m mapView) Contains(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m mapView) Keys() []string {
	keys := make([]string, 0, m.rv.Len())
	for _, k := range m.rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

func (m mapView) Values() []any {
	keys := m.Keys()
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i], _ = m.Get(k)
	}
	return out
}

func (m mapView) Items() []Item {
	keys := m.Keys()
	out := make([]Item, len(keys))
	for i, k := range keys {
		v, _ := m.Get(k)
		out[i] = Item{Key: k, Value: v}
	}
	return out
}

func (m mapView) Len() int { return m.rv.Len() }

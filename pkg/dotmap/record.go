package dotmap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type fieldInfo struct {
	name  string
	index []int
	typ   reflect.Type
}

type fieldSet struct {
	order  []string
	byName map[string]fieldInfo
}

// fieldCache maps reflect.Type to *fieldSet.
var fieldCache sync.Map

func fieldsOf(t reflect.Type) *fieldSet {
	if fs, ok := fieldCache.Load(t); ok {
		return fs.(*fieldSet)
	}
	fs := &fieldSet{byName: make(map[string]fieldInfo)}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get(TagName), ",")
		switch name {
		case "-":
			continue
		case "":
			name = strings.ToLower(sf.Name)
		}
		fs.order = append(fs.order, name)
		fs.byName[name] = fieldInfo{name: name, index: sf.Index, typ: sf.Type}
	}
	actual, _ := fieldCache.LoadOrStore(t, fs)
	return actual.(*fieldSet)
}

// Fields returns the declared field names of the struct pointed to by ptr.
func Fields(ptr any) []string {
	t := reflect.TypeOf(ptr)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return append([]string(nil), fieldsOf(t).order...)
}

// Record is a Gettable view over a struct. Declared fields are addressed by
// their toml tag name. A record created with NewRecordWithExtras falls back
// to a raw store for keys that are not declared; otherwise such writes fail
// with ErrUnknownField.
type Record struct {
	v      reflect.Value
	fields *fieldSet
	extra  *Map
}

// NewRecord returns a strict record over ptr, a non-nil pointer to a struct.
func NewRecord(ptr any) *Record {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("dotmap: NewRecord needs a non-nil struct pointer, got %T", ptr))
	}
	return &Record{v: rv.Elem(), fields: fieldsOf(rv.Elem().Type())}
}

// NewRecordWithExtras returns a record that stores undeclared keys in extra.
func NewRecordWithExtras(ptr any, extra *Map) *Record {
	r := NewRecord(ptr)
	if extra == nil {
		extra = NewMap()
	}
	r.extra = extra
	return r
}

// Interface returns the underlying struct pointer.
func (r *Record) Interface() any { return r.v.Addr().Interface() }

// Extras returns the raw fallback store, or nil for a strict record.
func (r *Record) Extras() *Map { return r.extra }

// HasField reports whether key names a declared field.
func (r *Record) HasField(key string) bool {
	_, ok := r.fields.byName[key]
	return ok
}

// FieldType returns the Go type of a declared field.
func (r *Record) FieldType(key string) (reflect.Type, bool) {
	fi, ok := r.fields.byName[key]
	if !ok {
		return nil, false
	}
	return fi.typ, true
}

// Field returns the addressable value of a declared field.
func (r *Record) Field(key string) (reflect.Value, bool) {
	fi, ok := r.fields.byName[key]
	if !ok {
		return reflect.Value{}, false
	}
	return r.v.FieldByIndex(fi.index), true
}

// Get implements Gettable. Nil and empty-string fields count as absent.
// Pointers to scalars are dereferenced.
func (r *Record) Get(key string) (any, bool) {
	if f, ok := r.Field(key); ok {
		if isAbsent(f) {
			return nil, false
		}
		if f.Kind() == reflect.Pointer && f.Elem().Kind() != reflect.Struct {
			return f.Elem().Interface(), true
		}
		return f.Interface(), true
	}
	return r.extra.Get(key)
}

// Contains implements Gettable.
func (r *Record) Contains(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the present declared fields in declaration order followed by
// the keys of the raw store.
func (r *Record) Keys() []string {
	var keys []string
	for _, name := range r.fields.order {
		if f, _ := r.Field(name); !isAbsent(f) {
			keys = append(keys, name)
		}
	}
	for _, k := range r.extra.Keys() {
		if !r.HasField(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Values implements Gettable.
func (r *Record) Values() []any {
	keys := r.Keys()
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i], _ = r.Get(k)
	}
	return out
}

// Items implements Gettable.
func (r *Record) Items() []Item {
	keys := r.Keys()
	out := make([]Item, len(keys))
	for i, k := range keys {
		v, _ := r.Get(k)
		out[i] = Item{Key: k, Value: v}
	}
	return out
}

// Len implements Gettable.
func (r *Record) Len() int { return len(r.Keys()) }

// Set assigns value to key, converting it to the field's declared type.
func (r *Record) Set(key string, value any) error {
	_, err := r.Assign(key, value)
	return err
}

// Assign is Set that also reports whether the stored value changed.
func (r *Record) Assign(key string, value any) (bool, error) {
	f, ok := r.Field(key)
	if !ok {
		if r.extra == nil {
			return false, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		old, had := r.extra.Get(key)
		changed := !had || !reflect.DeepEqual(old, value)
		return changed, r.extra.Set(key, value)
	}
	nv, err := DecodeValue(value, f.Type())
	if err != nil {
		return false, &FieldError{Field: key, Err: err}
	}
	changed := isAbsent(f) || !reflect.DeepEqual(f.Interface(), nv.Interface())
	f.Set(nv)
	return changed, nil
}

// Delete resets a declared field to its zero value, or removes a raw key.
// It reports whether a value was present.
func (r *Record) Delete(key string) bool {
	if f, ok := r.Field(key); ok {
		had := !isAbsent(f)
		f.Set(reflect.Zero(f.Type()))
		return had
	}
	return r.extra.Delete(key)
}

func isAbsent(f reflect.Value) bool {
	switch f.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return f.IsNil()
	case reflect.String:
		return f.Len() == 0
	}
	return false
}

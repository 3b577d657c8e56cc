package dotmap

import (
	"fmt"
	"iter"
	"reflect"
)

// Entries is the type-erased form of a Collection, used by code that walks
// collections without knowing their element type.
type Entries interface {
	Gettable
	Setter
	// EntryRecord returns a record view of the named entry.
	EntryRecord(name string) (*Record, bool)
	// NewEntry returns a pointer to a fresh zero element.
	NewEntry() any
	// PutEntry stores v, which must be a pointer to the element type.
	PutEntry(name string, v any) error
}

// Collection is an ordered set of named typed entries.
type Collection[T any] struct {
	names []string
	items map[string]*T
	clone func(*T) *T
}

// NewCollection returns an empty collection. clone is used by Clone to copy
// entries; it may be nil for a shallow element copy.
func NewCollection[T any](clone func(*T) *T) *Collection[T] {
	return &Collection[T]{items: make(map[string]*T), clone: clone}
}

// Entry returns the named entry.
func (c *Collection[T]) Entry(name string) (*T, bool) {
	v, ok := c.items[name]
	return v, ok
}

// Put stores v under name. Replacing an entry keeps its position.
func (c *Collection[T]) Put(name string, v *T) {
	if _, ok := c.items[name]; !ok {
		c.names = append(c.names, name)
	}
	c.items[name] = v
}

// Delete removes the named entry and reports whether it existed.
func (c *Collection[T]) Delete(name string) bool {
	if _, ok := c.items[name]; !ok {
		return false
	}
	delete(c.items, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i:i], c.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns entry names in insertion order.
func (c *Collection[T]) Names() []string { return append([]string(nil), c.names...) }

// All iterates entries in insertion order.
func (c *Collection[T]) All() iter.Seq2[string, *T] {
	return func(yield func(string, *T) bool) {
		for _, n := range c.names {
			if !yield(n, c.items[n]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the collection.
func (c *Collection[T]) Clone() *Collection[T] {
	out := &Collection[T]{
		names: append([]string(nil), c.names...),
		items: make(map[string]*T, len(c.items)),
		clone: c.clone,
	}
	for n, v := range c.items {
		if c.clone != nil {
			out.items[n] = c.clone(v)
			continue
		}
		cp := *v
		out.items[n] = &cp
	}
	return out
}

// Get implements Gettable.
func (c *Collection[T]) Get(key string) (any, bool) {
	v, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return v, true
}

// Contains implements Gettable.
func (c *Collection[T]) Contains(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Keys implements Gettable.
func (c *Collection[T]) Keys() []string { return c.Names() }

// Values implements Gettable.
func (c *Collection[T]) Values() []any {
	out := make([]any, len(c.names))
	for i, n := range c.names {
		out[i] = c.items[n]
	}
	return out
}

// Items implements Gettable.
func (c *Collection[T]) Items() []Item {
	out := make([]Item, len(c.names))
	for i, n := range c.names {
		out[i] = Item{Key: n, Value: c.items[n]}
	}
	return out
}

// Len implements Gettable.
func (c *Collection[T]) Len() int { return len(c.names) }

// Set decodes value into a new entry and stores it under key.
func (c *Collection[T]) Set(key string, value any) error {
	if v, ok := value.(*T); ok {
		c.Put(key, v)
		return nil
	}
	v := new(T)
	if _, err := Decode(value, v); err != nil {
		return &FieldError{Field: key, Err: err}
	}
	c.Put(key, v)
	return nil
}

// EntryRecord implements Entries.
func (c *Collection[T]) EntryRecord(name string) (*Record, bool) {
	v, ok := c.items[name]
	if !ok {
		return nil, false
	}
	return NewRecord(v), true
}

// NewEntry implements Entries.
func (c *Collection[T]) NewEntry() any { return new(T) }

// PutEntry implements Entries.
func (c *Collection[T]) PutEntry(name string, v any) error {
	t, ok := v.(*T)
	if !ok {
		return fmt.Errorf("collection of %s cannot hold %T", reflect.TypeFor[T](), v)
	}
	c.Put(name, t)
	return nil
}

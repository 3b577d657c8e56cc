package dotmap

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by subscript style lookups of a missing key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrIndexOutOfRange is returned for positional lookups past either end.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownField is returned when assigning an undeclared field of a
	// record that has no raw fallback store.
	ErrUnknownField = errors.New("unknown field")
)

// KeyTypeError reports a subscript key that is neither a string nor an int.
type KeyTypeError struct {
	Key any
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("key must be a string or an int, got %T", e.Key)
}

// FieldError reports a value that could not be assigned to a typed field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nudb/nudbconfig/internal/loader"
)

var (
	// ErrCyclicDerivation is matched by every *CycleError.
	ErrCyclicDerivation = errors.New("cyclic derivation")
	// ErrOverrideDirNotFound is returned when an override directory does not
	// exist. It matches fs.ErrNotExist.
	ErrOverrideDirNotFound = fmt.Errorf("override directory not found: %w", fs.ErrNotExist)
	// ErrUnknownCheck is returned by RunCheck for an unregistered check name.
	ErrUnknownCheck = errors.New("unknown check")
)

// SchemaError reports declarations that violate the schema. Err aggregates
// every violation found in the source.
type SchemaError struct {
	Category loader.Category
	Source   string // file path, or loader.MemoryPath
	Path     string // dotted key path, empty for whole-source errors
	Err      error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(string(e.Category))
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// CycleError reports a variable whose derivation chain leads back to itself.
type CycleError struct {
	Variable string
	Path     []string // e.g. [a b c a]
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic derivation at %q: %s", e.Variable, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, ErrCyclicDerivation) true.
func (e *CycleError) Is(target error) bool { return target == ErrCyclicDerivation }

// CheckError reports every offender found by one named check.
type CheckError struct {
	Check     string
	Offenders []string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %s failed for %d key(s): %s",
		e.Check, len(e.Offenders), strings.Join(e.Offenders, ", "))
}

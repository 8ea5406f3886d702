package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/diewo77/go-revenue/validation"
)

// Sentinel errors for errors.Is checks.
var (
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError is returned before anything is written when a caller-supplied
// value breaks a constraint.
type ValidationError struct {
	Op         string
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e.Violations[f]
	}
	return fmt.Sprintf("store: %s: %s", e.Op, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps any failure of the durable backend. It is never retried.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

package idxtree

import (
	"errors"
	"fmt"
)

// Errors for index tree operations.
var (
	// ErrIndexOutOfRange is returned when an insertion rank is outside [0, Len].
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNilNode is returned when a nil node is passed to Insert.
	ErrNilNode = errors.New("nil node")

	// ErrCorrupt marks an internal-consistency fault in the tree structure.
	ErrCorrupt = errors.New("index tree corrupted")
)

// CorruptionError describes a violated structural invariant.
// Tree operations panic with a *CorruptionError; Check returns one.
type CorruptionError struct {
	Op     string // operation that detected the fault
	Index  int    // rank being processed, or -1
	Detail string
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("idxtree: %s at index %d: %s", e.Op, e.Index, e.Detail)
	}
	return fmt.Sprintf("idxtree: %s: %s", e.Op, e.Detail)
}

// Unwrap returns ErrCorrupt so callers can use errors.Is.
func (e *CorruptionError) Unwrap() error {
	return ErrCorrupt
}

// corrupt builds a CorruptionError.
func corrupt(op string, index int, format string, args ...any) *CorruptionError {
	return &CorruptionError{Op: op, Index: index, Detail: fmt.Sprintf(format, args...)}
}

// AsCorruption converts a recovered panic value into an error.
// It returns nil if v is not a corruption fault.
func AsCorruption(v any) error {
	if ce, ok := v.(*CorruptionError); ok {
		return ce
	}
	return nil
}

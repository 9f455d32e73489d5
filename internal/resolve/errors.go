package resolve

import (
	"errors"
	"fmt"

	"cool/internal/source"
	"cool/internal/symbols"
)

// ErrorKind enumerates definition failures.
type ErrorKind uint8

const (
	ErrInfiniteSize ErrorKind = iota + 1
	ErrCannotBeDefined
	ErrNotAType
	ErrDuplicateField
	ErrInvalidType
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInfiniteSize:
		return "infinite size"
	case ErrCannotBeDefined:
		return "cannot be defined"
	case ErrNotAType:
		return "not a type"
	case ErrDuplicateField:
		return "duplicate field"
	case ErrInvalidType:
		return "invalid type"
	default:
		return "unknown"
	}
}

// Error reports why an item could not be defined. Err carries the
// underlying cause when there is one.
type Error struct {
	Kind ErrorKind
	Item symbols.ItemID
	Path string
	Span source.Span
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var msg string
	switch e.Kind {
	case ErrInfiniteSize:
		msg = fmt.Sprintf("recursive type %s has infinite size", e.Path)
	case ErrCannotBeDefined:
		msg = fmt.Sprintf("%s cannot be defined", e.Path)
	case ErrNotAType:
		msg = fmt.Sprintf("%s is not a type", e.Path)
	case ErrDuplicateField:
		msg = fmt.Sprintf("duplicate field %s", e.Path)
	case ErrInvalidType:
		msg = fmt.Sprintf("invalid type in %s", e.Path)
	default:
		msg = fmt.Sprintf("resolve error kind=%d %s", e.Kind, e.Path)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// errDeferred marks a lowering that may succeed on a later pass.
type errDeferred struct {
	cause error
}

func (e *errDeferred) Error() string { return "deferred: " + e.cause.Error() }
func (e *errDeferred) Unwrap() error { return e.cause }

// IsDeferred reports whether err only means "not yet".
func IsDeferred(err error) bool {
	var d *errDeferred
	return errors.As(err, &d)
}

package manifest

import (
	"fmt"

	"cool/internal/source"
)

// ErrorKind classifies manifest failures.
type ErrorKind uint8

const (
	ErrRead ErrorKind = iota + 1
	ErrDecode
	ErrUnknownKey
	ErrBadType
	ErrBadModulePath
	ErrUnknownTarget
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRead:
		return "read"
	case ErrDecode:
		return "decode"
	case ErrUnknownKey:
		return "unknown key"
	case ErrBadType:
		return "bad type"
	case ErrBadModulePath:
		return "bad module path"
	case ErrUnknownTarget:
		return "unknown target"
	default:
		return "unknown"
	}
}

// Error is a manifest problem tied to a file position when one is known.
type Error struct {
	Kind ErrorKind
	Path string
	Span source.Span
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

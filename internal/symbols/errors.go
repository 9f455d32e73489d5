package symbols

import "fmt"

// ErrorKind enumerates resolution failures.
type ErrorKind uint8

const (
	ErrAlreadyDefined ErrorKind = iota + 1
	ErrNotFound
	ErrPrivate
	ErrTooManySuperKeywords
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAlreadyDefined:
		return "already defined"
	case ErrNotFound:
		return "not found"
	case ErrPrivate:
		return "private"
	case ErrTooManySuperKeywords:
		return "too many super keywords"
	default:
		return "unknown"
	}
}

// Error reports a declaration or resolution failure. Name is the offending
// segment, Path the full path being declared or resolved.
type Error struct {
	Kind ErrorKind
	Name string
	Path string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrAlreadyDefined:
		return fmt.Sprintf("%q is already defined in %s", e.Name, e.Path)
	case ErrNotFound:
		return fmt.Sprintf("cannot find %q in %s", e.Name, e.Path)
	case ErrPrivate:
		return fmt.Sprintf("%q is private (in %s)", e.Name, e.Path)
	case ErrTooManySuperKeywords:
		return fmt.Sprintf("too many super keywords in %s", e.Path)
	default:
		return "symbols: " + e.Kind.String()
	}
}

// Is matches errors by kind so callers can use errors.Is(err, &Error{Kind: ...}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t.Kind == e.Kind
}

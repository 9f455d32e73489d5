package layout

import (
	"fmt"

	"cool/internal/types"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrUndefined indicates a struct whose body is not defined yet.
	LayoutErrUndefined LayoutErrorKind = iota + 1
	LayoutErrLengthConversion
	LayoutErrInvalidType
	// LayoutErrFieldIndex is a field or element index past the aggregate.
	LayoutErrFieldIndex
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind  LayoutErrorKind
	Type  types.TypeID
	Label string
	Index int   // for LayoutErrFieldIndex
	Err   error // for LayoutErrLengthConversion
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	name := e.Label
	if name == "" {
		name = fmt.Sprintf("type#%d", e.Type)
	}
	switch e.Kind {
	case LayoutErrUndefined:
		return fmt.Sprintf("layout of undefined type %s", name)
	case LayoutErrLengthConversion:
		if e.Err != nil {
			return fmt.Sprintf("array length conversion error (%s): %v", name, e.Err)
		}
		return fmt.Sprintf("array length conversion error (%s)", name)
	case LayoutErrInvalidType:
		return fmt.Sprintf("no layout for %s", name)
	case LayoutErrFieldIndex:
		return fmt.Sprintf("field index %d out of range for %s", e.Index, name)
	default:
		return fmt.Sprintf("layout error kind=%d %s", e.Kind, name)
	}
}

func (e *LayoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

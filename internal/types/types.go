package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// ListID identifies an interned list of TypeIDs (tuple elements, fn params,
// variant members).
type ListID uint32

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindPointer
	KindManyPointer
	KindSlice
	KindArray
	KindTuple
	KindFn
	KindStruct
	KindVariant
	KindInfer    // not yet known; unifies with anything
	KindIntLit   // untyped integer literal
	KindFloatLit // untyped float literal
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindManyPointer:
		return "many-pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindFn:
		return "fn"
	case KindStruct:
		return "struct"
	case KindVariant:
		return "variant"
	case KindInfer:
		return "infer"
	case KindIntLit:
		return "int-literal"
	case KindFloatLit:
		return "float-literal"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0 // pointer-sized (isize/usize)
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ABI tags the calling convention of a function type.
type ABI uint8

const (
	ABICool ABI = iota
	ABIC
)

func (a ABI) String() string {
	if a == ABIC {
		return "c"
	}
	return "cool"
}

// Type is a compact descriptor for any supported type. Composite element
// lists live in the interner's list arena and are referenced by Payload, so
// a Type is a flat comparable value and structural identity reduces to
// descriptor equality.
type Type struct {
	Kind     Kind
	Elem     TypeID // pointee, element or fn result
	Count    uint32 // array length
	Width    Width  // numeric primitives
	Mutable  bool   // pointers and slices
	Variadic bool   // fn
	ABI      ABI    // fn
	Payload  uint32 // ListID for tuple/fn/variant, struct slot for struct
}

// IsInferred reports whether t is a placeholder awaiting unification.
func (t Type) IsInferred() bool {
	return t.Kind == KindInfer || t.Kind == KindIntLit || t.Kind == KindFloatLit
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

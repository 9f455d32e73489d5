package resolve

import (
	"cool/internal/source"
	"cool/internal/types"
)

// ExprKind enumerates unresolved type expression forms.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprPath
	ExprPointer
	ExprManyPointer
	ExprSlice
	ExprArray
	ExprTuple
	ExprFn
	ExprVariant
	ExprInfer
)

// TypeExpr is type syntax as handed over by a front end, before any name in
// it has been resolved.
type TypeExpr struct {
	Kind     ExprKind
	Path     []source.StringID // ExprPath
	Elem     *TypeExpr         // pointer, many-pointer, slice, array
	Mutable  bool
	Count    uint32     // ExprArray
	Elems    []TypeExpr // tuple elements, fn params, variant members
	Result   *TypeExpr  // ExprFn; nil means unit
	Variadic bool
	ABI      types.ABI
	Span     source.Span
}

// FieldExpr is one unresolved struct field.
type FieldExpr struct {
	Name source.StringID
	Type TypeExpr
	Span source.Span
}

// PathExpr names a type by path.
func PathExpr(segs ...source.StringID) TypeExpr {
	return TypeExpr{Kind: ExprPath, Path: segs}
}

// PointerExpr builds *T or *mut T.
func PointerExpr(elem TypeExpr, mutable bool) TypeExpr {
	return TypeExpr{Kind: ExprPointer, Elem: &elem, Mutable: mutable}
}

// ManyPointerExpr builds [*]T.
func ManyPointerExpr(elem TypeExpr, mutable bool) TypeExpr {
	return TypeExpr{Kind: ExprManyPointer, Elem: &elem, Mutable: mutable}
}

// SliceExpr builds []T.
func SliceExpr(elem TypeExpr, mutable bool) TypeExpr {
	return TypeExpr{Kind: ExprSlice, Elem: &elem, Mutable: mutable}
}

// ArrayExpr builds [N]T.
func ArrayExpr(elem TypeExpr, count uint32) TypeExpr {
	return TypeExpr{Kind: ExprArray, Elem: &elem, Count: count}
}

// TupleExpr builds (A, B, ...).
func TupleExpr(elems ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: ExprTuple, Elems: elems}
}

// VariantExpr builds A | B | ...
func VariantExpr(members ...TypeExpr) TypeExpr {
	return TypeExpr{Kind: ExprVariant, Elems: members}
}

// FnExpr builds a function signature; result may be nil.
func FnExpr(abi types.ABI, params []TypeExpr, variadic bool, result *TypeExpr) TypeExpr {
	return TypeExpr{Kind: ExprFn, ABI: abi, Elems: params, Variadic: variadic, Result: result}
}

// InferExpr is a placeholder to be fixed by unification.
func InferExpr() TypeExpr {
	return TypeExpr{Kind: ExprInfer}
}

package layout

import (
	"fortio.org/safecast"

	"cool/internal/source"
	"cool/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Structs: offsets in stored field order. Tuples: offsets by element index.
	FieldOffsets []int

	// Variants only.
	Union *TaggedUnionLayout
}

// LayoutEngine computes memory layout for types.
type LayoutEngine struct {
	Target Target
	Types  *types.Interner

	cache *cache
}

// New creates a new LayoutEngine for the specified target.
func New(target Target, typesIn *types.Interner) *LayoutEngine {
	return &LayoutEngine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if e == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	l, err := e.layoutOf(t)
	if err != nil {
		return l, err
	}
	return l, nil
}

func (e *LayoutEngine) layoutOf(t types.TypeID) (TypeLayout, *LayoutError) {
	if e.cache == nil {
		e.cache = newCache()
	}
	if cached, ok := e.cache.get(t); ok {
		return cached, nil
	}
	l, err := e.computeLayout(t)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	e.cache.put(t, l)
	return l, nil
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// IsZeroSized reports whether values of t occupy no storage.
func (e *LayoutEngine) IsZeroSized(t types.TypeID) (bool, error) {
	l, err := e.LayoutOf(t)
	return l.Size == 0, err
}

// FieldOffset returns the byte offset of a struct field (stored order) or a
// tuple element. Types without fields report every index as out of range.
func (e *LayoutEngine) FieldOffset(t types.TypeID, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(t)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, &LayoutError{Kind: LayoutErrFieldIndex, Type: t, Label: types.Label(e.Types, t), Index: fieldIdx}
	}
	return l.FieldOffsets[fieldIdx], nil
}

// StructFieldOffset returns the offset of the named field of a defined struct.
func (e *LayoutEngine) StructFieldOffset(t types.TypeID, name source.StringID) (int, bool) {
	info, ok := e.Types.StructInfo(t)
	if !ok || info.Def == nil {
		return 0, false
	}
	for _, f := range info.Def.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return 0, false
}

// Cached reports how many layouts are memoized.
func (e *LayoutEngine) Cached() int {
	return e.cache.len()
}

func (e *LayoutEngine) computeLayout(id types.TypeID) (TypeLayout, *LayoutError) {
	if id == types.NoTypeID || e.Types == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{}, &LayoutError{Kind: LayoutErrInvalidType, Type: id}
	}

	switch tt.Kind {
	case types.KindUnit, types.KindInfer:
		return TypeLayout{Size: 0, Align: 1}, nil

	case types.KindBool:
		return scalarLayoutBytes(1), nil

	case types.KindChar:
		return scalarLayoutBytes(4), nil

	case types.KindInt, types.KindUint, types.KindFloat:
		if tt.Width == types.WidthAny {
			return e.ptrLayout(), nil
		}
		return scalarLayoutBytes(int(tt.Width) / 8), nil

	case types.KindIntLit, types.KindFloatLit:
		// untyped literals default to 64 bits
		return scalarLayoutBytes(8), nil

	case types.KindPointer, types.KindManyPointer, types.KindFn:
		return e.ptrLayout(), nil

	case types.KindSlice:
		p := e.ptrLayout()
		return TypeLayout{Size: 2 * p.Size, Align: p.Align}, nil

	case types.KindArray:
		return e.arrayFixedLayout(id, tt.Elem, tt.Count)

	case types.KindTuple:
		return e.tupleLayout(id)

	case types.KindStruct:
		info, _ := e.Types.StructInfo(id)
		if !info.Defined() {
			return TypeLayout{}, &LayoutError{Kind: LayoutErrUndefined, Type: id, Label: types.Label(e.Types, id)}
		}
		offsets := make([]int, len(info.Def.Fields))
		for i, f := range info.Def.Fields {
			offsets[i] = f.Offset
		}
		return TypeLayout{Size: info.Def.Size, Align: maxInt(1, info.Def.Align), FieldOffsets: offsets}, nil

	case types.KindVariant:
		members, _ := e.Types.VariantMembers(id)
		u, err := e.taggedUnion(members)
		if err != nil {
			return TypeLayout{}, err
		}
		return TypeLayout{Size: u.Size, Align: u.Align, Union: &u}, nil

	default:
		return TypeLayout{}, &LayoutError{Kind: LayoutErrInvalidType, Type: id, Label: tt.Kind.String()}
	}
}

func (e *LayoutEngine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) TypeLayout {
	if size <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: size, Align: size}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (e *LayoutEngine) arrayFixedLayout(id, elem types.TypeID, length uint32) (TypeLayout, *LayoutError) {
	elemLayout, err := e.layoutOf(elem)
	if err != nil {
		return TypeLayout{}, err
	}
	elemAlign := maxInt(1, elemLayout.Align)
	stride := roundUp(elemLayout.Size, elemAlign)
	n, convErr := safecast.Conv[int](length)
	if convErr != nil {
		return TypeLayout{}, &LayoutError{Kind: LayoutErrLengthConversion, Type: id, Err: convErr}
	}
	return TypeLayout{Size: stride * n, Align: elemAlign}, nil
}

func (e *LayoutEngine) tupleLayout(id types.TypeID) (TypeLayout, *LayoutError) {
	elems, _ := e.Types.TupleElems(id)
	slots := make([]Slot, len(elems))
	for i, elem := range elems {
		el, err := e.layoutOf(elem)
		if err != nil {
			return TypeLayout{}, err
		}
		slots[i] = Slot{Size: el.Size, Align: el.Align}
	}
	p := Arrange(slots)
	return TypeLayout{Size: p.Size, Align: p.Align, FieldOffsets: p.Offsets}, nil
}

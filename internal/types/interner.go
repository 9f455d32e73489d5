package types

import (
	"cool/internal/arena"
	"cool/internal/source"
)

// Builtins stores TypeIDs for primitive types and inference placeholders.
type Builtins struct {
	Unit     TypeID
	Bool     TypeID
	Char     TypeID
	I8       TypeID
	I16      TypeID
	I32      TypeID
	I64      TypeID
	Isize    TypeID
	U8       TypeID
	U16      TypeID
	U32      TypeID
	U64      TypeID
	Usize    TypeID
	F32      TypeID
	F64      TypeID
	Infer    TypeID
	IntLit   TypeID
	FloatLit TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	Strings *source.Interner

	types    *arena.Interner[TypeID, Type]
	lists    *arena.SliceInterner[ListID, TypeID]
	structs  arena.Dense[structSlot, StructInfo]
	builtins Builtins
	prims    map[string]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives. If
// strings is nil, a fresh string interner is allocated.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		Strings: strings,
		types:   arena.NewInterner[TypeID, Type](256),
		lists:   arena.NewSliceInterner[ListID, TypeID](64),
		prims:   make(map[string]TypeID, 20),
	}
	b := &in.builtins
	b.Unit = in.prim("unit", Type{Kind: KindUnit})
	b.Bool = in.prim("bool", Type{Kind: KindBool})
	b.Char = in.prim("char", Type{Kind: KindChar})
	b.I8 = in.prim("i8", MakeInt(Width8))
	b.I16 = in.prim("i16", MakeInt(Width16))
	b.I32 = in.prim("i32", MakeInt(Width32))
	b.I64 = in.prim("i64", MakeInt(Width64))
	b.Isize = in.prim("isize", MakeInt(WidthAny))
	b.U8 = in.prim("u8", MakeUint(Width8))
	b.U16 = in.prim("u16", MakeUint(Width16))
	b.U32 = in.prim("u32", MakeUint(Width32))
	b.U64 = in.prim("u64", MakeUint(Width64))
	b.Usize = in.prim("usize", MakeUint(WidthAny))
	b.F32 = in.prim("f32", MakeFloat(Width32))
	b.F64 = in.prim("f64", MakeFloat(Width64))
	b.Infer = in.Intern(Type{Kind: KindInfer})
	b.IntLit = in.Intern(Type{Kind: KindIntLit})
	b.FloatLit = in.Intern(Type{Kind: KindFloatLit})
	return in
}

func (in *Interner) prim(name string, t Type) TypeID {
	id := in.Intern(t)
	in.prims[name] = id
	return id
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Primitive returns the primitive type spelled name ("i32", "bool", ...).
func (in *Interner) Primitive(name string) (TypeID, bool) {
	id, ok := in.prims[name]
	return id, ok
}

// PrimitiveNames lists the names accepted by Primitive.
func (in *Interner) PrimitiveNames() map[string]TypeID {
	out := make(map[string]TypeID, len(in.prims))
	for k, v := range in.prims {
		out[k] = v
	}
	return out
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	return in.types.Intern(t)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID {
		return Type{}, false
	}
	return in.types.Get(id)
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind of id, or KindInvalid.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Len reports the number of distinct types.
func (in *Interner) Len() int {
	return in.types.Len()
}

func (in *Interner) list(elems []TypeID) uint32 {
	return uint32(in.lists.Intern(elems))
}

func (in *Interner) listElems(payload uint32) []TypeID {
	elems, _ := in.lists.Get(ListID(payload))
	return elems
}

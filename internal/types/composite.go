package types

// MkPointer describes *T or *mut T.
func (in *Interner) MkPointer(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindPointer, Elem: elem, Mutable: mutable})
}

// MkManyPointer describes [*]T, a pointer to an unknown number of elements.
func (in *Interner) MkManyPointer(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindManyPointer, Elem: elem, Mutable: mutable})
}

// MkSlice describes []T (pointer plus length).
func (in *Interner) MkSlice(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindSlice, Elem: elem, Mutable: mutable})
}

// MkArray describes [N]T.
func (in *Interner) MkArray(elem TypeID, count uint32) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Count: count})
}

// MkTuple describes (A, B, ...). The empty tuple is unit.
func (in *Interner) MkTuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.Unit
	}
	return in.Intern(Type{Kind: KindTuple, Payload: in.list(elems)})
}

// MkFn describes a function signature. A missing result is unit.
func (in *Interner) MkFn(abi ABI, params []TypeID, variadic bool, result TypeID) TypeID {
	if result == NoTypeID {
		result = in.builtins.Unit
	}
	return in.Intern(Type{
		Kind:     KindFn,
		Elem:     result,
		Variadic: variadic,
		ABI:      abi,
		Payload:  in.list(params),
	})
}

// MkVariant describes a tagged union over an ordered set of members.
// Repeated members collapse onto their first occurrence.
func (in *Interner) MkVariant(members []TypeID) TypeID {
	set := make([]TypeID, 0, len(members))
	seen := make(map[TypeID]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		set = append(set, m)
	}
	return in.Intern(Type{Kind: KindVariant, Payload: in.list(set)})
}

// FnSig is the decoded form of a function type.
type FnSig struct {
	ABI      ABI
	Params   []TypeID
	Variadic bool
	Result   TypeID
}

// TupleElems returns the element types of a tuple. The result is shared with
// the interner and must not be modified.
func (in *Interner) TupleElems(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple {
		return nil, false
	}
	return in.listElems(tt.Payload), true
}

// VariantMembers returns the members of a variant in declaration order.
func (in *Interner) VariantMembers(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindVariant {
		return nil, false
	}
	return in.listElems(tt.Payload), true
}

// FnInfo decodes a function type.
func (in *Interner) FnInfo(id TypeID) (FnSig, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn {
		return FnSig{}, false
	}
	return FnSig{
		ABI:      tt.ABI,
		Params:   in.listElems(tt.Payload),
		Variadic: tt.Variadic,
		Result:   tt.Elem,
	}, true
}

package types

import "fmt"

// MismatchError reports that two types cannot be unified.
type MismatchError struct {
	Found    TypeID
	Expected TypeID
	Labels   [2]string
}

func (e *MismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Labels[0] != "" {
		return fmt.Sprintf("type mismatch: found %s, expected %s", e.Labels[0], e.Labels[1])
	}
	return fmt.Sprintf("type mismatch: found type#%d, expected type#%d", e.Found, e.Expected)
}

// ResolveNonInferred unifies found against expected and returns the concrete
// result. An inferred placeholder takes the other side; an untyped integer
// widens to any integer type (or an untyped float), an untyped float to any
// float type. Composite types unify element-wise when their shapes agree.
func (in *Interner) ResolveNonInferred(found, expected TypeID) (TypeID, error) {
	if id, ok := in.unify(found, expected); ok {
		return id, nil
	}
	return NoTypeID, &MismatchError{
		Found:    found,
		Expected: expected,
		Labels:   [2]string{Label(in, found), Label(in, expected)},
	}
}

func (in *Interner) unify(found, expected TypeID) (TypeID, bool) {
	if found == expected {
		return found, true
	}
	f, okF := in.Lookup(found)
	e, okE := in.Lookup(expected)
	if !okF || !okE {
		return NoTypeID, false
	}
	switch {
	case f.Kind == KindInfer:
		return expected, true
	case e.Kind == KindInfer:
		return found, true
	case f.Kind == KindIntLit && acceptsIntLit(e.Kind):
		return expected, true
	case e.Kind == KindIntLit && acceptsIntLit(f.Kind):
		return found, true
	case f.Kind == KindFloatLit && e.Kind == KindFloat:
		return expected, true
	case e.Kind == KindFloatLit && f.Kind == KindFloat:
		return found, true
	}
	if f.Kind != e.Kind {
		return NoTypeID, false
	}
	switch f.Kind {
	case KindPointer, KindManyPointer, KindSlice:
		if f.Mutable != e.Mutable {
			return NoTypeID, false
		}
		elem, ok := in.unify(f.Elem, e.Elem)
		if !ok {
			return NoTypeID, false
		}
		f.Elem = elem
		return in.Intern(f), true
	case KindArray:
		if f.Count != e.Count {
			return NoTypeID, false
		}
		elem, ok := in.unify(f.Elem, e.Elem)
		if !ok {
			return NoTypeID, false
		}
		return in.MkArray(elem, f.Count), true
	case KindTuple:
		fe, _ := in.TupleElems(found)
		ee, _ := in.TupleElems(expected)
		if len(fe) != len(ee) {
			return NoTypeID, false
		}
		out := make([]TypeID, len(fe))
		for i := range fe {
			elem, ok := in.unify(fe[i], ee[i])
			if !ok {
				return NoTypeID, false
			}
			out[i] = elem
		}
		return in.MkTuple(out), true
	}
	return NoTypeID, false
}

func acceptsIntLit(k Kind) bool {
	return k == KindInt || k == KindUint || k == KindFloatLit
}

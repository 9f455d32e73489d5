package symbols

import (
	"errors"
	"fmt"

	"cool/internal/source"
	"cool/internal/types"
)

// ErrBindingTypeFixed is returned when a binding's type is set twice.
var ErrBindingTypeFixed = errors.New("symbols: binding type already fixed")

// OpenFrame allocates a frame whose parent is the given module or frame.
func (t *Table) OpenFrame(parent Scope) FrameID {
	f := Frame{Bindings: make(map[source.StringID]BindingID)}
	if parent.IsFrame() {
		pf := t.Frame(parent.Frame)
		if pf == nil {
			panic(fmt.Sprintf("symbols: invalid parent frame %d", parent.Frame))
		}
		f.Parent = parent.Frame
		f.Module = pf.Module
	} else {
		if t.Module(parent.Module) == nil {
			panic(fmt.Sprintf("symbols: invalid parent module %d", parent.Module))
		}
		f.Module = parent.Module
	}
	return t.frames.Push(f)
}

// Bind introduces name in frame. Shadowing a binding of an ancestor frame is
// allowed; a duplicate within the same frame is not.
func (t *Table) Bind(frame FrameID, name source.StringID, mutable bool, ty types.TypeID) (BindingID, error) {
	f := t.Frame(frame)
	if f == nil {
		return NoBindingID, &Error{Kind: ErrNotFound, Name: t.name(name), Path: "<invalid frame>"}
	}
	if _, dup := f.Bindings[name]; dup {
		return NoBindingID, &Error{Kind: ErrAlreadyDefined, Name: t.name(name), Path: fmt.Sprintf("frame %d", frame)}
	}
	id := t.bindings.Push(Binding{
		Name:    name,
		Frame:   frame,
		Mutable: mutable,
		Type:    ty,
		Fixed:   !t.inferred(ty),
	})
	f.Bindings[name] = id
	return id, nil
}

// SetBindingType replaces an inferred binding type with a concrete one. It
// succeeds at most once per binding.
func (t *Table) SetBindingType(id BindingID, ty types.TypeID) error {
	b := t.Binding(id)
	if b == nil {
		return fmt.Errorf("symbols: invalid binding %d", id)
	}
	if b.Fixed {
		return fmt.Errorf("%w: %s", ErrBindingTypeFixed, t.name(b.Name))
	}
	b.Type = ty
	b.Fixed = !t.inferred(ty)
	return nil
}

// ResolveName walks the frame chain outward and falls back to module-level
// resolution of name as a single-segment path.
func (t *Table) ResolveName(frame FrameID, name source.StringID) (Resolved, error) {
	var module ModuleID
	for cur := frame; cur.IsValid(); {
		f := t.Frame(cur)
		if f == nil {
			break
		}
		if b, ok := f.Bindings[name]; ok {
			return Resolved{Kind: ResolvedBinding, Binding: b}, nil
		}
		module = f.Module
		cur = f.Parent
	}
	if !module.IsValid() {
		return Resolved{}, &Error{Kind: ErrNotFound, Name: t.name(name), Path: fmt.Sprintf("frame %d", frame)}
	}
	item, err := t.ResolvePath(module, []source.StringID{name})
	if err != nil {
		return Resolved{}, err
	}
	res := Resolved{Kind: ResolvedItem, Item: item}
	if it := t.Item(item); it != nil && it.Kind == ItemModule {
		res.Kind = ResolvedModule
		res.Module = it.Module
	}
	return res, nil
}

func (t *Table) inferred(ty types.TypeID) bool {
	if ty == types.NoTypeID {
		return true
	}
	if t.Types == nil {
		return false
	}
	tt, ok := t.Types.Lookup(ty)
	return ok && tt.IsInferred()
}

package resolve

import (
	"cool/internal/symbols"
	"cool/internal/types"
)

// containsByValue reports whether fields, read from scope, reach target
// without passing through an indirection. Pointers, slices and function
// types end a walk; queued struct and alias bodies are followed in their raw
// form so cycles among not-yet-defined items surface on the first attempt.
func (c *Context) containsByValue(target types.TypeID, scope symbols.ModuleID, fields []FieldExpr) bool {
	w := &containWalker{
		c:      c,
		target: target,
		items:  make(map[symbols.ItemID]struct{}),
		types:  make(map[types.TypeID]struct{}),
	}
	for _, f := range fields {
		if w.expr(scope, f.Type) {
			return true
		}
	}
	return false
}

type containWalker struct {
	c      *Context
	target types.TypeID
	items  map[symbols.ItemID]struct{}
	types  map[types.TypeID]struct{}
}

func (w *containWalker) expr(scope symbols.ModuleID, e TypeExpr) bool {
	switch e.Kind {
	case ExprArray:
		return e.Elem != nil && w.expr(scope, *e.Elem)
	case ExprTuple, ExprVariant:
		for _, el := range e.Elems {
			if w.expr(scope, el) {
				return true
			}
		}
	case ExprPath:
		item, err := w.c.Table.ResolvePath(scope, e.Path)
		if err != nil {
			return false
		}
		return w.item(item)
	}
	return false
}

func (w *containWalker) item(id symbols.ItemID) bool {
	if _, seen := w.items[id]; seen {
		return false
	}
	w.items[id] = struct{}{}
	if ty, ok := w.c.itemTypes[id]; ok {
		it := w.c.Table.Item(id)
		if it.Kind == symbols.ItemStruct || it.Kind == symbols.ItemAlias {
			return w.typ(ty)
		}
		return false
	}
	if en := w.c.pending[id]; en != nil && en.kind == EntryAlias {
		return w.expr(en.module, en.expr)
	}
	return false
}

func (w *containWalker) typ(id types.TypeID) bool {
	if id == w.target {
		return true
	}
	if _, seen := w.types[id]; seen {
		return false
	}
	w.types[id] = struct{}{}
	tt, ok := w.c.Types.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindArray:
		return w.typ(tt.Elem)
	case types.KindTuple:
		elems, _ := w.c.Types.TupleElems(id)
		return w.anyType(elems)
	case types.KindVariant:
		members, _ := w.c.Types.VariantMembers(id)
		return w.anyType(members)
	case types.KindStruct:
		info, _ := w.c.Types.StructInfo(id)
		if info.Defined() {
			for _, f := range info.Def.Fields {
				if w.typ(f.Type) {
					return true
				}
			}
			return false
		}
		if en := w.c.raw[id]; en != nil {
			for _, f := range en.fields {
				if w.expr(en.module, f.Type) {
					return true
				}
			}
		}
	}
	return false
}

func (w *containWalker) anyType(ids []types.TypeID) bool {
	for _, id := range ids {
		if w.typ(id) {
			return true
		}
	}
	return false
}

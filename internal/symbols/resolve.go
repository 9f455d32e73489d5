package symbols

import "cool/internal/source"

// ResolvePath maps a dotted path, as written inside module scope, to the
// item it names. The first segment may be a keyword (crate, super, self), a
// name local to scope, a root module or a builtin; every later segment is
// looked up in the module reached so far and must be exported unless scope
// lies inside that module. Use items resolve to their targets.
func (t *Table) ResolvePath(scope ModuleID, path []source.StringID) (ItemID, error) {
	from := t.Module(scope)
	if from == nil {
		return NoItemID, &Error{Kind: ErrNotFound, Name: t.joinSegments(path), Path: "<invalid module>"}
	}
	if len(path) == 0 {
		return NoItemID, &Error{Kind: ErrNotFound, Path: t.PathString(from.Path)}
	}

	cur := scope
	rest := path
	switch first := path[0]; first {
	case t.kw.crate:
		cur = from.Root
		rest = path[1:]
	case t.kw.self:
		rest = path[1:]
	case t.kw.super:
		for len(rest) > 0 && rest[0] == t.kw.super {
			parent := t.Module(cur).Parent
			if !parent.IsValid() {
				return NoItemID, &Error{Kind: ErrTooManySuperKeywords, Name: "super", Path: t.joinSegments(path)}
			}
			cur = parent
			rest = rest[1:]
		}
	default:
		item, ok := t.lookupFirst(from, first)
		if !ok {
			return NoItemID, &Error{Kind: ErrNotFound, Name: t.name(first), Path: t.PathString(from.Path)}
		}
		if len(path) == 1 {
			return item, nil
		}
		next, err := t.enter(item, first, path)
		if err != nil {
			return NoItemID, err
		}
		cur = next
		rest = path[1:]
	}

	if len(rest) == 0 {
		return t.Module(cur).Item, nil
	}
	for i, seg := range rest {
		if t.IsKeyword(seg) {
			return NoItemID, &Error{Kind: ErrNotFound, Name: t.name(seg), Path: t.ModuleString(cur)}
		}
		m := t.Module(cur)
		entry, ok := m.Entries[seg]
		if !ok {
			return NoItemID, &Error{Kind: ErrNotFound, Name: t.name(seg), Path: t.PathString(m.Path)}
		}
		if !entry.Exported && !t.CanAccess(scope, cur) {
			return NoItemID, &Error{Kind: ErrPrivate, Name: t.name(seg), Path: t.PathString(m.Path)}
		}
		item := t.deref(entry.Item)
		if i == len(rest)-1 {
			return item, nil
		}
		next, err := t.enter(item, seg, path)
		if err != nil {
			return NoItemID, err
		}
		cur = next
	}
	return NoItemID, nil // unreachable
}

// lookupFirst resolves an unqualified leading segment: local names shadow
// root modules, which shadow builtins.
func (t *Table) lookupFirst(from *Module, name source.StringID) (ItemID, bool) {
	if entry, ok := from.Entries[name]; ok {
		return t.deref(entry.Item), true
	}
	if root, ok := t.roots[name]; ok {
		return t.Module(root).Item, true
	}
	if entry, ok := t.Module(t.builtins).Entries[name]; ok {
		return entry.Item, true
	}
	return NoItemID, false
}

// enter steps into item, which must be a module, to continue resolution.
func (t *Table) enter(item ItemID, seg source.StringID, path []source.StringID) (ModuleID, error) {
	it := t.Item(item)
	if it == nil || it.Kind != ItemModule {
		return NoModuleID, &Error{Kind: ErrNotFound, Name: t.name(seg), Path: t.joinSegments(path)}
	}
	return it.Module, nil
}

// deref follows use items to the item they import.
func (t *Table) deref(id ItemID) ItemID {
	for range 64 {
		it := t.Item(id)
		if it == nil || it.Kind != ItemUse || !it.Target.IsValid() {
			return id
		}
		id = it.Target
	}
	return id
}

package symbols

import (
	"slices"

	"cool/internal/source"
)

// DeclareRootModule declares a top-level crate module. Declaring the same
// root twice returns the existing module.
func (t *Table) DeclareRootModule(name source.StringID) ModuleID {
	if id, ok := t.roots[name]; ok {
		return id
	}
	segs := []source.StringID{name}
	item, ok := t.insertItem(segs, Item{Kind: ItemModule, Name: name, Exported: true})
	if !ok {
		panic("symbols: root path collides with a declared item")
	}
	id := t.modules.Push(Module{
		Item:    item,
		Path:    item.Path(),
		Entries: make(map[source.StringID]Entry),
	})
	t.modules.Get(id).Root = id
	t.Item(item).Module = id
	t.roots[name] = id
	return id
}

// DeclareChildModule declares a nested module under parent.
func (t *Table) DeclareChildModule(parent ModuleID, exported bool, name source.StringID) (ModuleID, error) {
	item, err := t.DeclareItem(parent, ItemModule, exported, name)
	if err != nil {
		return NoModuleID, err
	}
	p := t.Module(parent)
	id := t.modules.Push(Module{
		Item:    item,
		Path:    item.Path(),
		Parent:  parent,
		Root:    p.Root,
		Depth:   p.Depth + 1,
		Entries: make(map[source.StringID]Entry),
	})
	t.Item(item).Module = id
	return id, nil
}

// DeclareItem registers name in parent. The item's path is the parent path
// plus name; a second declaration of the same name fails with
// AlreadyDefined and leaves the first item untouched.
func (t *Table) DeclareItem(parent ModuleID, kind ItemKind, exported bool, name source.StringID) (ItemID, error) {
	p := t.Module(parent)
	if p == nil {
		return NoItemID, &Error{Kind: ErrNotFound, Name: t.name(name), Path: "<invalid module>"}
	}
	if _, dup := p.Entries[name]; dup {
		return NoItemID, &Error{Kind: ErrAlreadyDefined, Name: t.name(name), Path: t.PathString(p.Path)}
	}
	segs := append(slices.Clone(t.Path(p.Path)), name)
	item, ok := t.insertItem(segs, Item{Kind: kind, Name: name, Parent: parent, Exported: exported})
	if !ok {
		return NoItemID, &Error{Kind: ErrAlreadyDefined, Name: t.name(name), Path: t.PathString(p.Path)}
	}
	p.Entries[name] = Entry{Exported: exported, Item: item}
	p.Order = append(p.Order, name)
	return item, nil
}

// InsertUse resolves path from parent and, on success, declares alias (or
// the last path segment when alias is zero) as a use item pointing at the
// target. A failed resolution declares nothing, so the caller may retry
// once the missing segment has been declared.
func (t *Table) InsertUse(parent ModuleID, exported bool, path []source.StringID, alias source.StringID) (ItemID, error) {
	target, err := t.ResolvePath(parent, path)
	if err != nil {
		return NoItemID, err
	}
	if alias == source.NoStringID {
		alias = path[len(path)-1]
		if t.IsKeyword(alias) {
			alias = t.Item(target).Name
		}
	}
	item, err := t.DeclareItem(parent, ItemUse, exported, alias)
	if err != nil {
		return NoItemID, err
	}
	t.Item(item).Target = target
	return item, nil
}

func (t *Table) insertItem(segs []source.StringID, it Item) (ItemID, bool) {
	path, fresh := t.paths.InsertIfAbsent(segs)
	if !fresh {
		return NoItemID, false
	}
	id := t.items.Push(it)
	if uint32(id) != uint32(path) {
		panic("symbols: item arena out of step with path table")
	}
	return id, true
}

package resolve

import (
	"cool/internal/layout"
	"cool/internal/source"
	"cool/internal/symbols"
	"cool/internal/types"
)

// Context owns every table of one compilation unit.
type Context struct {
	Strings *source.Interner
	Table   *symbols.Table
	Types   *types.Interner
	Layout  *layout.LayoutEngine

	itemTypes map[symbols.ItemID]types.TypeID
	queue     []*entry
	pending   map[symbols.ItemID]*entry
	raw       map[types.TypeID]*entry // struct bodies, kept after failure
	failed    map[symbols.ItemID]error
}

// NewContext builds a context for target with the builtins module in place.
func NewContext(target layout.Target) *Context {
	strs := source.NewInterner()
	typesIn := types.NewInterner(strs)
	c := &Context{
		Strings:   strs,
		Types:     typesIn,
		Table:     symbols.NewTable(symbols.Hints{Paths: 256}, strs, typesIn),
		Layout:    layout.New(target, typesIn),
		itemTypes: make(map[symbols.ItemID]types.TypeID, 64),
		pending:   make(map[symbols.ItemID]*entry),
		raw:       make(map[types.TypeID]*entry),
		failed:    make(map[symbols.ItemID]error),
	}
	builtins := c.Table.Module(c.Table.Builtins())
	for _, name := range builtins.Order {
		s, _ := strs.Lookup(name)
		ty, ok := typesIn.Primitive(s)
		if !ok {
			continue
		}
		c.itemTypes[builtins.Entries[name].Item] = ty
	}
	return c
}

// ItemType returns the type recorded for a struct, alias, fn, static or
// primitive item.
func (c *Context) ItemType(item symbols.ItemID) (types.TypeID, bool) {
	ty, ok := c.itemTypes[item]
	return ty, ok
}

// Failure returns the permanent error recorded for item, if any.
func (c *Context) Failure(item symbols.ItemID) error {
	return c.failed[item]
}

// Declaration API.

func (c *Context) DeclareRootModule(name source.StringID) symbols.ModuleID {
	return c.Table.DeclareRootModule(name)
}

func (c *Context) DeclareChildModule(parent symbols.ModuleID, exported bool, name source.StringID) (symbols.ModuleID, error) {
	return c.Table.DeclareChildModule(parent, exported, name)
}

func (c *Context) DeclareItem(parent symbols.ModuleID, kind symbols.ItemKind, exported bool, name source.StringID) (symbols.ItemID, error) {
	return c.Table.DeclareItem(parent, kind, exported, name)
}

// InsertUse resolves path eagerly and fails when a segment is missing. Use
// DeclareUse to have a failed import retried by Pass.
func (c *Context) InsertUse(parent symbols.ModuleID, exported bool, path []source.StringID, alias source.StringID) (symbols.ItemID, error) {
	return c.Table.InsertUse(parent, exported, path, alias)
}

// Resolution API.

func (c *Context) ResolvePath(scope symbols.ModuleID, path []source.StringID) (symbols.ItemID, error) {
	return c.Table.ResolvePath(scope, path)
}

func (c *Context) ResolveName(frame symbols.FrameID, name source.StringID) (symbols.Resolved, error) {
	return c.Table.ResolveName(frame, name)
}

func (c *Context) OpenFrame(parent symbols.Scope) symbols.FrameID {
	return c.Table.OpenFrame(parent)
}

func (c *Context) Bind(frame symbols.FrameID, name source.StringID, mutable bool, ty types.TypeID) (symbols.BindingID, error) {
	return c.Table.Bind(frame, name, mutable, ty)
}

func (c *Context) SetBindingType(b symbols.BindingID, ty types.TypeID) error {
	return c.Table.SetBindingType(b, ty)
}

// Type API.

func (c *Context) MkPointer(elem types.TypeID, mutable bool) types.TypeID {
	return c.Types.MkPointer(elem, mutable)
}

func (c *Context) MkManyPointer(elem types.TypeID, mutable bool) types.TypeID {
	return c.Types.MkManyPointer(elem, mutable)
}

func (c *Context) MkSlice(elem types.TypeID, mutable bool) types.TypeID {
	return c.Types.MkSlice(elem, mutable)
}

func (c *Context) MkArray(elem types.TypeID, count uint32) types.TypeID {
	return c.Types.MkArray(elem, count)
}

func (c *Context) MkTuple(elems []types.TypeID) types.TypeID {
	return c.Types.MkTuple(elems)
}

func (c *Context) MkFn(abi types.ABI, params []types.TypeID, variadic bool, result types.TypeID) types.TypeID {
	return c.Types.MkFn(abi, params, variadic, result)
}

func (c *Context) MkVariant(members []types.TypeID) types.TypeID {
	return c.Types.MkVariant(members)
}

func (c *Context) ResolveNonInferred(found, expected types.TypeID) (types.TypeID, error) {
	return c.Types.ResolveNonInferred(found, expected)
}

// Layout API.

func (c *Context) GetSize(ty types.TypeID) (int, error) {
	return c.Layout.SizeOf(ty)
}

func (c *Context) GetAlign(ty types.TypeID) (int, error) {
	return c.Layout.AlignOf(ty)
}

func (c *Context) IsZeroSized(ty types.TypeID) (bool, error) {
	return c.Layout.IsZeroSized(ty)
}

package symbols

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"fortio.org/safecast"

	"cool/internal/arena"
	"cool/internal/source"
	"cool/internal/types"
)

// BuiltinsModule is the name of the root module holding primitive types.
const BuiltinsModule = "builtins"

// PrimitiveNames lists the primitive type items of the builtins module.
var PrimitiveNames = []string{
	"unit", "bool", "char",
	"i8", "i16", "i32", "i64", "isize",
	"u8", "u16", "u32", "u64", "usize",
	"f32", "f64",
}

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Paths uint }

type keywords struct {
	crate, super, self source.StringID
}

// Table aggregates the path table, module graph and frame/binding tables.
type Table struct {
	Strings *source.Interner
	// Types is consulted to tell inferred placeholders from concrete binding
	// types. Optional.
	Types *types.Interner

	paths    *arena.SliceInterner[PathID, source.StringID]
	items    arena.Dense[ItemID, Item]
	modules  arena.Dense[ModuleID, Module]
	frames   arena.Dense[FrameID, Frame]
	bindings arena.Dense[BindingID, Binding]

	roots    map[source.StringID]ModuleID
	builtins ModuleID
	kw       keywords
}

// NewTable builds a fresh table with the builtins module already declared.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner, typesIn *types.Interner) *Table {
	pathCap, err := safecast.Conv[int](h.Paths)
	if err != nil {
		panic(fmt.Errorf("path capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Strings: strings,
		Types:   typesIn,
		paths:   arena.NewSliceInterner[PathID, source.StringID](pathCap),
		roots:   make(map[source.StringID]ModuleID),
		kw: keywords{
			crate: strings.Intern("crate"),
			super: strings.Intern("super"),
			self:  strings.Intern("self"),
		},
	}
	t.builtins = t.DeclareRootModule(strings.Intern(BuiltinsModule))
	for _, name := range PrimitiveNames {
		if _, err := t.DeclareItem(t.builtins, ItemPrimitive, true, strings.Intern(name)); err != nil {
			panic(err)
		}
	}
	return t
}

// Builtins returns the builtins pseudo-module.
func (t *Table) Builtins() ModuleID { return t.builtins }

// IsKeyword reports whether name is one of the path keywords.
func (t *Table) IsKeyword(name source.StringID) bool {
	return name == t.kw.crate || name == t.kw.super || name == t.kw.self
}

// IsKeywordName is IsKeyword for uninterned text.
func IsKeywordName(name string) bool {
	return name == "crate" || name == "super" || name == "self"
}

// Item returns the item pointer or nil for an invalid ID.
func (t *Table) Item(id ItemID) *Item { return t.items.Get(id) }

// Module returns the module pointer or nil for an invalid ID.
func (t *Table) Module(id ModuleID) *Module { return t.modules.Get(id) }

// Frame returns the frame pointer or nil for an invalid ID.
func (t *Table) Frame(id FrameID) *Frame { return t.frames.Get(id) }

// Binding returns the binding pointer or nil for an invalid ID.
func (t *Table) Binding(id BindingID) *Binding { return t.bindings.Get(id) }

// Items iterates over declared items in declaration order.
func (t *Table) Items() iter.Seq2[ItemID, *Item] { return t.items.All() }

// Modules iterates over declared modules in declaration order.
func (t *Table) Modules() iter.Seq2[ModuleID, *Module] { return t.modules.All() }

// Roots returns the root modules ordered by declaration, builtins first.
func (t *Table) Roots() []ModuleID {
	out := make([]ModuleID, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Path returns the segments of an interned path. The result is shared and
// must not be modified.
func (t *Table) Path(id PathID) []source.StringID {
	segs, _ := t.paths.Get(id)
	return segs
}

// LookupPath finds the item declared under the given absolute path.
func (t *Table) LookupPath(segs []source.StringID) (ItemID, bool) {
	id, ok := t.paths.Lookup(segs)
	return ItemID(id), ok
}

// FindModule finds a module by its absolute path.
func (t *Table) FindModule(segs []source.StringID) (ModuleID, bool) {
	item, ok := t.LookupPath(segs)
	if !ok {
		return NoModuleID, false
	}
	it := t.Item(item)
	if it == nil || it.Kind != ItemModule {
		return NoModuleID, false
	}
	return it.Module, true
}

// PathString renders an interned path with dots.
func (t *Table) PathString(id PathID) string {
	return t.joinSegments(t.Path(id))
}

// ItemString renders the absolute path of an item.
func (t *Table) ItemString(id ItemID) string {
	return t.PathString(id.Path())
}

// ModuleString renders the absolute path of a module.
func (t *Table) ModuleString(id ModuleID) string {
	m := t.Module(id)
	if m == nil {
		return "<invalid module>"
	}
	return t.PathString(m.Path)
}

func (t *Table) joinSegments(segs []source.StringID) string {
	var sb strings.Builder
	for i, seg := range segs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(t.name(seg))
	}
	return sb.String()
}

func (t *Table) name(id source.StringID) string {
	s, _ := t.Strings.Lookup(id)
	return s
}

// IsDescendant reports whether m is anc or lies beneath it.
func (t *Table) IsDescendant(m, anc ModuleID) bool {
	for cur := m; cur.IsValid(); {
		if cur == anc {
			return true
		}
		mod := t.Module(cur)
		if mod == nil {
			return false
		}
		cur = mod.Parent
	}
	return false
}

// CanAccess reports whether code in querier may name a non-exported entry
// of owner.
func (t *Table) CanAccess(querier, owner ModuleID) bool {
	return t.IsDescendant(querier, owner)
}

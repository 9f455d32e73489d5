package symbols

import (
	"cool/internal/source"
	"cool/internal/types"
)

// ItemKind classifies what a declared item names.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemModule
	ItemStruct
	ItemAlias
	ItemFn
	ItemStatic
	ItemUse
	ItemPrimitive
)

func (k ItemKind) String() string {
	switch k {
	case ItemModule:
		return "module"
	case ItemStruct:
		return "struct"
	case ItemAlias:
		return "alias"
	case ItemFn:
		return "fn"
	case ItemStatic:
		return "static"
	case ItemUse:
		return "use"
	case ItemPrimitive:
		return "primitive"
	default:
		return "invalid"
	}
}

// Item is a named entry owned by a module.
type Item struct {
	Kind     ItemKind
	Name     source.StringID
	Parent   ModuleID // NoModuleID for root modules
	Exported bool
	Module   ModuleID // set for ItemModule
	Target   ItemID   // set for ItemUse once resolved
	Span     source.Span
}

// Entry is a module-local name binding.
type Entry struct {
	Exported bool
	Item     ItemID
}

// Module is a path-addressed namespace.
type Module struct {
	Item    ItemID
	Path    PathID
	Parent  ModuleID
	Root    ModuleID
	Depth   int
	Entries map[source.StringID]Entry
	Order   []source.StringID // declaration order of Entries
}

// Frame is a lexical scope for local bindings.
type Frame struct {
	Parent   FrameID  // NoFrameID when the parent is a module
	Module   ModuleID // enclosing module
	Bindings map[source.StringID]BindingID
}

// Binding is a local name introduced in a frame.
type Binding struct {
	Name    source.StringID
	Frame   FrameID
	Mutable bool
	Type    types.TypeID
	Fixed   bool // Type is concrete and may no longer change
}

// Scope is either a module or a frame.
type Scope struct {
	Module ModuleID
	Frame  FrameID
}

// ModuleScope wraps a module as a scope.
func ModuleScope(id ModuleID) Scope { return Scope{Module: id} }

// FrameScope wraps a frame as a scope.
func FrameScope(id FrameID) Scope { return Scope{Frame: id} }

// IsFrame reports whether the scope refers to a frame.
func (s Scope) IsFrame() bool { return s.Frame.IsValid() }

// ResolvedKind tags the result of name resolution.
type ResolvedKind uint8

const (
	ResolvedNone ResolvedKind = iota
	ResolvedBinding
	ResolvedItem
	ResolvedModule
)

// Resolved is the outcome of ResolveName.
type Resolved struct {
	Kind    ResolvedKind
	Binding BindingID
	Item    ItemID
	Module  ModuleID
}

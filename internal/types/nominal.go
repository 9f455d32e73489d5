package types

import (
	"errors"
	"fmt"
	"slices"

	"cool/internal/source"
)

type structSlot uint32

// Field is a laid-out struct member.
type Field struct {
	Name   source.StringID
	Offset int
	Type   TypeID
}

// TyDef is the body of an aggregate once every field type is known.
type TyDef struct {
	Fields []Field // in layout order
	Size   int
	Align  int
}

// StructInfo stores metadata for a nominal struct type.
type StructInfo struct {
	Name  source.StringID
	Owner uint32 // declaring item
	Def   *TyDef // nil until defined
}

// Defined reports whether the struct body has been set.
func (s *StructInfo) Defined() bool {
	return s != nil && s.Def != nil
}

var (
	// ErrNotStruct is returned when a struct operation targets another kind.
	ErrNotStruct = errors.New("types: not a struct type")
	// ErrAlreadyDefined is returned when a struct body is set twice.
	ErrAlreadyDefined = errors.New("types: struct already defined")
)

// DeclareStruct allocates a nominal struct slot and returns its TypeID. Every
// call yields a distinct type; the body is attached later by DefineStruct.
func (in *Interner) DeclareStruct(name source.StringID, owner uint32) TypeID {
	slot := in.structs.Push(StructInfo{Name: name, Owner: owner})
	return in.Intern(Type{Kind: KindStruct, Payload: uint32(slot)})
}

// DefineStruct attaches the body to a declared struct. The transition from
// undefined to defined happens exactly once.
func (in *Interner) DefineStruct(id TypeID, def TyDef) error {
	info := in.structInfo(id)
	if info == nil {
		return fmt.Errorf("%w: type#%d", ErrNotStruct, id)
	}
	if info.Def != nil {
		return fmt.Errorf("%w: type#%d", ErrAlreadyDefined, id)
	}
	def.Fields = slices.Clone(def.Fields)
	info.Def = &def
	return nil
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	info := in.structInfo(id)
	return info, info != nil
}

// IsDefined reports whether id is usable by value: every non-struct type is,
// structs only once their body is set.
func (in *Interner) IsDefined(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	if tt.Kind != KindStruct {
		return true
	}
	return in.structInfo(id).Defined()
}

func (in *Interner) structInfo(id TypeID) *StructInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	return in.structs.Get(structSlot(tt.Payload))
}

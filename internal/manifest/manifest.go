// Package manifest reads declaration manifests: TOML or YAML files that list
// a crate's modules, structs, aliases, imports and function signatures.
// They feed the resolver the same declarations a parser would.
package manifest

import (
	"strings"

	"cool/internal/source"
	"cool/internal/symbols"
)

// Format is the encoding of a manifest file.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Manifest is one decoded declaration file. Module fields are dotted paths
// relative to the crate root; "" names the root itself.
type Manifest struct {
	File   source.FileID `toml:"-" yaml:"-"`
	Path   string        `toml:"-" yaml:"-"`
	Format Format        `toml:"-" yaml:"-"`

	Crate      Crate        `toml:"crate" yaml:"crate"`
	Target     string       `toml:"target" yaml:"target"`
	TargetSpan source.Span  `toml:"-" yaml:"-"`
	Modules    []ModuleDecl `toml:"module" yaml:"module"`
	Structs    []StructDecl `toml:"struct" yaml:"struct"`
	Aliases    []AliasDecl  `toml:"alias" yaml:"alias"`
	Uses       []UseDecl    `toml:"use" yaml:"use"`
	Fns        []FnDecl     `toml:"fn" yaml:"fn"`
	Statics    []StaticDecl `toml:"static" yaml:"static"`
}

type Crate struct {
	Name string      `toml:"name" yaml:"name"`
	Span source.Span `toml:"-" yaml:"-"`
}

type ModuleDecl struct {
	Path     string      `toml:"path" yaml:"path"`
	Exported bool        `toml:"exported" yaml:"exported"`
	Span     source.Span `toml:"-" yaml:"-"`
}

type FieldDecl struct {
	Name   string `toml:"name" yaml:"name"`
	Type   string `toml:"type" yaml:"type"`
	Syntax Syntax `toml:"-" yaml:"-"`
}

type StructDecl struct {
	Module   string      `toml:"module" yaml:"module"`
	Name     string      `toml:"name" yaml:"name"`
	Exported bool        `toml:"exported" yaml:"exported"`
	Fields   []FieldDecl `toml:"fields" yaml:"fields"`
	Span     source.Span `toml:"-" yaml:"-"`
}

type AliasDecl struct {
	Module   string      `toml:"module" yaml:"module"`
	Name     string      `toml:"name" yaml:"name"`
	Exported bool        `toml:"exported" yaml:"exported"`
	Type     string      `toml:"type" yaml:"type"`
	Syntax   Syntax      `toml:"-" yaml:"-"`
	Span     source.Span `toml:"-" yaml:"-"`
}

// UseDecl imports Path into Module under Alias (default: last segment).
type UseDecl struct {
	Module   string      `toml:"module" yaml:"module"`
	Path     string      `toml:"path" yaml:"path"`
	Alias    string      `toml:"alias" yaml:"alias"`
	Exported bool        `toml:"exported" yaml:"exported"`
	Span     source.Span `toml:"-" yaml:"-"`
}

// FnDecl is a function signature; ABI is "" or "c".
type FnDecl struct {
	Module   string      `toml:"module" yaml:"module"`
	Name     string      `toml:"name" yaml:"name"`
	Exported bool        `toml:"exported" yaml:"exported"`
	ABI      string      `toml:"abi" yaml:"abi"`
	Params   []string    `toml:"params" yaml:"params"`
	Variadic bool        `toml:"variadic" yaml:"variadic"`
	Ret      string      `toml:"ret" yaml:"ret"`
	Syntax   Syntax      `toml:"-" yaml:"-"`
	Span     source.Span `toml:"-" yaml:"-"`
}

type StaticDecl struct {
	Module   string      `toml:"module" yaml:"module"`
	Name     string      `toml:"name" yaml:"name"`
	Exported bool        `toml:"exported" yaml:"exported"`
	Type     string      `toml:"type" yaml:"type"`
	Syntax   Syntax      `toml:"-" yaml:"-"`
	Span     source.Span `toml:"-" yaml:"-"`
}

// SplitPath splits a dotted path; "" yields no segments.
func SplitPath(p string) []string {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil
	}
	segs := strings.Split(p, ".")
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
	}
	return segs
}

// ModuleSegments returns the absolute segments of a crate-relative module path.
func (m *Manifest) ModuleSegments(rel string) []string {
	return append([]string{m.Crate.Name}, SplitPath(rel)...)
}

// Decls counts every declaration in m.
func (m *Manifest) Decls() int {
	return len(m.Modules) + len(m.Structs) + len(m.Aliases) + len(m.Uses) + len(m.Fns) + len(m.Statics)
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if i == 0 && b >= '0' && b <= '9' {
			return false
		}
		if !isIdentPart(b) {
			return false
		}
	}
	return true
}

// validModulePath accepts "" or dotted identifiers, none of them keywords.
func validModulePath(p string) bool {
	for _, seg := range SplitPath(p) {
		if !validIdent(seg) || symbols.IsKeywordName(seg) {
			return false
		}
	}
	return true
}

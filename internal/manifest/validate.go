package manifest

import (
	"errors"
	"fmt"

	"cool/internal/layout"
	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/types"
)

type validator struct {
	m    *Manifest
	errs []error
}

func (v *validator) fail(kind ErrorKind, span source.Span, format string, args ...any) {
	v.errs = append(v.errs, &Error{Kind: kind, Path: v.m.Path, Span: span, Msg: fmt.Sprintf(format, args...)})
}

func (v *validator) name(span source.Span, what, name string) {
	if !validIdent(name) {
		v.fail(ErrDecode, span, "%s has invalid name %q", what, name)
	}
}

func (v *validator) module(span source.Span, path string) {
	if !validModulePath(path) {
		v.fail(ErrBadModulePath, span, "invalid module path %q", path)
	}
}

func (v *validator) parse(span source.Span, what, src string) Syntax {
	s, err := ParseType(src)
	if err != nil {
		v.errs = append(v.errs, &Error{Kind: ErrBadType, Path: v.m.Path, Span: span, Msg: fmt.Sprintf("%s: bad type %q", what, src), Err: err})
	}
	return s
}

// validate checks names and module paths and parses every type string.
func (m *Manifest) validate() error {
	v := &validator{m: m}
	v.name(m.Crate.Span, "crate", m.Crate.Name)
	if m.Target != "" {
		if _, err := layout.TargetByName(m.Target); err != nil {
			v.errs = append(v.errs, &Error{Kind: ErrUnknownTarget, Path: m.Path, Span: m.TargetSpan, Msg: "unknown target", Err: err})
		}
	}
	for _, d := range m.Modules {
		if len(SplitPath(d.Path)) == 0 {
			v.fail(ErrBadModulePath, d.Span, "module path must not be empty")
			continue
		}
		v.module(d.Span, d.Path)
	}
	for i := range m.Structs {
		d := &m.Structs[i]
		v.module(d.Span, d.Module)
		v.name(d.Span, "struct", d.Name)
		for j := range d.Fields {
			f := &d.Fields[j]
			v.name(d.Span, "field", f.Name)
			f.Syntax = v.parse(d.Span, d.Name+"."+f.Name, f.Type)
		}
	}
	for i := range m.Aliases {
		d := &m.Aliases[i]
		v.module(d.Span, d.Module)
		v.name(d.Span, "alias", d.Name)
		d.Syntax = v.parse(d.Span, d.Name, d.Type)
	}
	for i := range m.Uses {
		d := &m.Uses[i]
		v.module(d.Span, d.Module)
		if len(SplitPath(d.Path)) == 0 {
			v.fail(ErrBadModulePath, d.Span, "use path must not be empty")
		}
		for _, seg := range SplitPath(d.Path) {
			if !validIdent(seg) {
				v.fail(ErrBadModulePath, d.Span, "invalid use path %q", d.Path)
				break
			}
		}
		if d.Alias != "" {
			v.name(d.Span, "use alias", d.Alias)
		}
	}
	for i := range m.Fns {
		d := &m.Fns[i]
		v.module(d.Span, d.Module)
		v.name(d.Span, "fn", d.Name)
		d.Syntax = v.fnSyntax(d)
	}
	for i := range m.Statics {
		d := &m.Statics[i]
		v.module(d.Span, d.Module)
		v.name(d.Span, "static", d.Name)
		d.Syntax = v.parse(d.Span, d.Name, d.Type)
	}
	return errors.Join(v.errs...)
}

func (v *validator) fnSyntax(d *FnDecl) Syntax {
	abi, ok := types.ABICool, true
	if d.ABI != "" {
		abi, ok = parseABI(d.ABI)
	}
	if !ok {
		v.fail(ErrBadType, d.Span, "fn %s: unknown ABI %q", d.Name, d.ABI)
	}
	sig := Syntax{Kind: resolve.ExprFn, ABI: abi, Variadic: d.Variadic}
	for _, p := range d.Params {
		sig.Elems = append(sig.Elems, v.parse(d.Span, d.Name+" param", p))
	}
	if d.Ret != "" {
		ret := v.parse(d.Span, d.Name+" result", d.Ret)
		sig.Result = &ret
	}
	return sig
}

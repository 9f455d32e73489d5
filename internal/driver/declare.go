package driver

import (
	"context"
	"slices"
	"strings"

	"cool/internal/diag"
	"cool/internal/manifest"
	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/symbols"
	"cool/internal/trace"
)

type declarer struct {
	ctx context.Context
	rc  *resolve.Context
	rep diag.Reporter
}

type moduleDecl struct {
	m    *manifest.Manifest
	decl manifest.ModuleDecl
	segs []string
}

// declare feeds every manifest into rc: crate roots first, then modules by
// depth so parents exist before children, then items in manifest order.
// Errors are collected per declaration and never stop the pass.
func declare(ctx context.Context, rc *resolve.Context, manifests []*manifest.Manifest, rep diag.Reporter) {
	d := &declarer{ctx: ctx, rc: rc, rep: rep}
	var mods []moduleDecl
	for _, m := range manifests {
		rc.DeclareRootModule(rc.Strings.Intern(m.Crate.Name))
		for _, md := range m.Modules {
			mods = append(mods, moduleDecl{m: m, decl: md, segs: m.ModuleSegments(md.Path)})
		}
	}
	slices.SortStableFunc(mods, func(a, b moduleDecl) int { return len(a.segs) - len(b.segs) })
	for _, md := range mods {
		d.module(md)
	}
	for _, m := range manifests {
		d.items(m)
	}
}

func (d *declarer) fail(err error, span source.Span) {
	reportErr(d.rep, err, span)
}

func (d *declarer) module(md moduleDecl) {
	parentSegs := d.rc.Strings.InternAll(md.segs[:len(md.segs)-1])
	parent, ok := d.rc.Table.FindModule(parentSegs)
	if !ok {
		d.fail(&symbols.Error{Kind: symbols.ErrNotFound, Name: md.segs[len(md.segs)-2], Path: strings.Join(md.segs[:len(md.segs)-1], ".")}, md.decl.Span)
		return
	}
	name := d.rc.Strings.Intern(md.segs[len(md.segs)-1])
	id, err := d.rc.DeclareChildModule(parent, md.decl.Exported, name)
	if err != nil {
		d.fail(err, md.decl.Span)
		return
	}
	if mod := d.rc.Table.Module(id); mod != nil {
		d.rc.SetSpan(mod.Item, md.decl.Span)
	}
	trace.Point(d.ctx, trace.ScopeItem, "module:"+strings.Join(md.segs, "."), "")
}

func (d *declarer) owner(m *manifest.Manifest, rel string, span source.Span) (symbols.ModuleID, bool) {
	segs := m.ModuleSegments(rel)
	id, ok := d.rc.Table.FindModule(d.rc.Strings.InternAll(segs))
	if !ok {
		d.fail(&symbols.Error{Kind: symbols.ErrNotFound, Name: segs[len(segs)-1], Path: strings.Join(segs, ".")}, span)
	}
	return id, ok
}

func (d *declarer) items(m *manifest.Manifest) {
	strs := d.rc.Strings
	for _, s := range m.Structs {
		mod, ok := d.owner(m, s.Module, s.Span)
		if !ok {
			continue
		}
		fields := make([]resolve.FieldExpr, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = resolve.FieldExpr{Name: strs.Intern(f.Name), Type: f.Syntax.Expr(strs, s.Span), Span: s.Span}
		}
		item, _, err := d.rc.DeclareStruct(mod, s.Exported, strs.Intern(s.Name), fields)
		d.declared(item, err, s.Span, "struct:")
	}
	for _, a := range m.Aliases {
		mod, ok := d.owner(m, a.Module, a.Span)
		if !ok {
			continue
		}
		item, err := d.rc.DeclareAlias(mod, a.Exported, strs.Intern(a.Name), a.Syntax.Expr(strs, a.Span))
		d.declared(item, err, a.Span, "alias:")
	}
	for _, f := range m.Fns {
		mod, ok := d.owner(m, f.Module, f.Span)
		if !ok {
			continue
		}
		item, err := d.rc.DeclareFn(mod, f.Exported, strs.Intern(f.Name), f.Syntax.Expr(strs, f.Span))
		d.declared(item, err, f.Span, "fn:")
	}
	for _, s := range m.Statics {
		mod, ok := d.owner(m, s.Module, s.Span)
		if !ok {
			continue
		}
		item, err := d.rc.DeclareStatic(mod, s.Exported, strs.Intern(s.Name), s.Syntax.Expr(strs, s.Span))
		d.declared(item, err, s.Span, "static:")
	}
	for _, u := range m.Uses {
		mod, ok := d.owner(m, u.Module, u.Span)
		if !ok {
			continue
		}
		alias := source.NoStringID
		if u.Alias != "" {
			alias = strs.Intern(u.Alias)
		}
		_, err := d.rc.DeclareUseAt(mod, u.Exported, strs.InternAll(manifest.SplitPath(u.Path)), alias, u.Span)
		if err != nil {
			d.fail(err, u.Span)
		}
	}
}

func (d *declarer) declared(item symbols.ItemID, err error, span source.Span, kind string) {
	if err != nil {
		d.fail(err, span)
		return
	}
	d.rc.SetSpan(item, span)
	trace.Point(d.ctx, trace.ScopeItem, kind+d.rc.Table.ItemString(item), "")
}

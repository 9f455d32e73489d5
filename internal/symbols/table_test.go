package symbols

import (
	"errors"
	"strings"
	"testing"

	"cool/internal/source"
	"cool/internal/types"
)

func segs(t *Table, dotted string) []source.StringID {
	return t.Strings.InternAll(strings.Split(dotted, "."))
}

func mustChild(t *testing.T, table *Table, parent ModuleID, exported bool, name string) ModuleID {
	t.Helper()
	id, err := table.DeclareChildModule(parent, exported, table.Strings.Intern(name))
	if err != nil {
		t.Fatalf("declare module %s: %v", name, err)
	}
	return id
}

func mustItem(t *testing.T, table *Table, parent ModuleID, kind ItemKind, exported bool, name string) ItemID {
	t.Helper()
	id, err := table.DeclareItem(parent, kind, exported, table.Strings.Intern(name))
	if err != nil {
		t.Fatalf("declare item %s: %v", name, err)
	}
	return id
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var se *Error
	if !errors.As(err, &se) || se.Kind != kind {
		t.Fatalf("err = %v, want %s", err, kind)
	}
}

func TestDeclareItemRejectsDuplicates(t *testing.T) {
	table := NewTable(Hints{}, nil, nil)
	root := table.DeclareRootModule(table.Strings.Intern("pkg"))

	first := mustItem(t, table, root, ItemStruct, true, "Point")
	_, err := table.DeclareItem(root, ItemAlias, false, table.Strings.Intern("Point"))
	wantKind(t, err, ErrAlreadyDefined)
	if !errors.Is(err, &Error{Kind: ErrAlreadyDefined}) {
		t.Fatalf("errors.Is by kind failed")
	}

	it := table.Item(first)
	if it == nil || it.Kind != ItemStruct || !it.Exported {
		t.Fatalf("first item changed: %+v", it)
	}
	if got := table.ItemString(first); got != "pkg.Point" {
		t.Fatalf("ItemString = %q", got)
	}
	if id, ok := table.LookupPath(segs(table, "pkg.Point")); !ok || id != first {
		t.Fatalf("LookupPath = %d,%v want %d", id, ok, first)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDeclareRootModuleIsIdempotent(t *testing.T) {
	table := NewTable(Hints{}, nil, nil)
	a := table.DeclareRootModule(table.Strings.Intern("pkg"))
	b := table.DeclareRootModule(table.Strings.Intern("pkg"))
	if a != b {
		t.Fatalf("root declared twice: %d vs %d", a, b)
	}
	roots := table.Roots()
	if len(roots) != 2 || roots[0] != table.Builtins() {
		t.Fatalf("roots = %v", roots)
	}
}

func TestResolvePathVisibility(t *testing.T) {
	table := NewTable(Hints{}, nil, nil)
	pkg := table.DeclareRootModule(table.Strings.Intern("pkg"))
	a := mustChild(t, table, pkg, false, "a")
	b := mustChild(t, table, a, false, "b")
	c := mustChild(t, table, pkg, false, "c")
	secret := mustItem(t, table, a, ItemStatic, false, "secret")

	got, err := table.ResolvePath(b, segs(table, "crate.a.secret"))
	if err != nil || got != secret {
		t.Fatalf("descendant access = %d,%v want %d", got, err, secret)
	}
	got, err = table.ResolvePath(b, segs(table, "super.secret"))
	if err != nil || got != secret {
		t.Fatalf("super access = %d,%v", got, err)
	}
	_, err = table.ResolvePath(c, segs(table, "crate.a.secret"))
	wantKind(t, err, ErrPrivate)
	_, err = table.ResolvePath(c, segs(table, "pkg.a.secret"))
	wantKind(t, err, ErrPrivate)

	other := table.DeclareRootModule(table.Strings.Intern("other"))
	_, err = table.ResolvePath(other, segs(table, "pkg.a"))
	wantKind(t, err, ErrPrivate)
}

func TestResolvePathKeywords(t *testing.T) {
	table := NewTable(Hints{}, nil, nil)
	pkg := table.DeclareRootModule(table.Strings.Intern("pkg"))
	a := mustChild(t, table, pkg, true, "a")
	b := mustChild(t, table, a, true, "b")
	top := mustItem(t, table, pkg, ItemFn, true, "main")
	local := mustItem(t, table, b, ItemFn, false, "helper")

	cases := []struct {
		path string
		want ItemID
	}{
		{"super.super.main", top},
		{"crate.main", top},
		{"self.helper", local},
		{"helper", local},
		{"pkg.a.b.helper", local},
		{"crate", table.Module(pkg).Item},
		{"super", table.Module(a).Item},
		{"self", table.Module(b).Item},
	}
	for _, tc := range cases {
		got, err := table.ResolvePath(b, segs(table, tc.path))
		if err != nil || got != tc.want {
			t.Fatalf("%s: got %d,%v want %d", tc.path, got, err, tc.want)
		}
	}

	_, err := table.ResolvePath(b, segs(table, "super.super.super.main"))
	wantKind(t, err, ErrTooManySuperKeywords)
	_, err = table.ResolvePath(b, segs(table, "crate.missing"))
	wantKind(t, err, ErrNotFound)
	_, err = table.ResolvePath(b, segs(table, "crate.main.x"))
	wantKind(t, err, ErrNotFound)
}

func TestResolvePathBuiltins(t *testing.T) {
	table := NewTable(Hints{}, nil, nil)
	pkg := table.DeclareRootModule(table.Strings.Intern("pkg"))
	i32, err := table.ResolvePath(pkg, segs(table, "i32"))
	if err != nil {
		t.Fatalf("resolve i32: %v", err)
	}
	if it := table.Item(i32); it.Kind != ItemPrimitive || it.Parent != table.Builtins() {
		t.Fatalf("i32 item = %+v", it)
	}
	if via, err := table.ResolvePath(pkg, segs(table, "builtins.i32")); err != nil || via != i32 {
		t.Fatalf("builtins.i32 = %d,%v", via, err)
	}

	shadow := mustItem(t, table, pkg, ItemAlias, false, "i32")
	if got, _ := table.ResolvePath(pkg, segs(table, "i32")); got != shadow {
		t.Fatalf("local name should shadow builtin")
	}
}

func TestInsertUse(t *testing.T) {
	table := NewTable(Hints{}, nil, nil)
	pkg := table.DeclareRootModule(table.Strings.Intern("pkg"))
	app := mustChild(t, table, pkg, true, "app")

	_, err := table.InsertUse(app, false, segs(table, "crate.util.Vec"), source.NoStringID)
	wantKind(t, err, ErrNotFound)
	if _, ok := table.Module(app).Entries[table.Strings.Intern("Vec")]; ok {
		t.Fatalf("failed use must not declare anything")
	}

	util := mustChild(t, table, pkg, true, "util")
	vec := mustItem(t, table, util, ItemStruct, true, "Vec")

	use, err := table.InsertUse(app, false, segs(table, "crate.util.Vec"), table.Strings.Intern("List"))
	if err != nil {
		t.Fatalf("retry use: %v", err)
	}
	if table.Item(use).Target != vec {
		t.Fatalf("use target = %d want %d", table.Item(use).Target, vec)
	}
	got, err := table.ResolvePath(app, segs(table, "List"))
	if err != nil || got != vec {
		t.Fatalf("resolve through use = %d,%v", got, err)
	}

	// importing a module lets later segments walk through the alias
	if _, err := table.InsertUse(app, false, segs(table, "crate.util"), source.NoStringID); err != nil {
		t.Fatalf("use module: %v", err)
	}
	if got, err := table.ResolvePath(app, segs(table, "util.Vec")); err != nil || got != vec {
		t.Fatalf("resolve util.Vec = %d,%v", got, err)
	}

	_, err = table.InsertUse(app, false, segs(table, "crate.util.Vec"), table.Strings.Intern("List"))
	wantKind(t, err, ErrAlreadyDefined)

	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestFramesAndBindings(t *testing.T) {
	ti := types.NewInterner(nil)
	table := NewTable(Hints{}, ti.Strings, ti)
	pkg := table.DeclareRootModule(table.Strings.Intern("pkg"))
	fn := mustItem(t, table, pkg, ItemFn, false, "run")

	outer := table.OpenFrame(ModuleScope(pkg))
	inner := table.OpenFrame(FrameScope(outer))
	x := table.Strings.Intern("x")

	bx, err := table.Bind(outer, x, false, ti.Builtins().I32)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	_, err = table.Bind(outer, x, true, ti.Builtins().I32)
	wantKind(t, err, ErrAlreadyDefined)

	shadow, err := table.Bind(inner, x, true, ti.Builtins().Infer)
	if err != nil {
		t.Fatalf("shadowing bind: %v", err)
	}

	res, err := table.ResolveName(inner, x)
	if err != nil || res.Kind != ResolvedBinding || res.Binding != shadow {
		t.Fatalf("inner x = %+v,%v", res, err)
	}
	res, err = table.ResolveName(outer, x)
	if err != nil || res.Binding != bx {
		t.Fatalf("outer x = %+v,%v", res, err)
	}
	res, err = table.ResolveName(inner, table.Strings.Intern("run"))
	if err != nil || res.Kind != ResolvedItem || res.Item != fn {
		t.Fatalf("run = %+v,%v", res, err)
	}
	res, err = table.ResolveName(inner, table.Strings.Intern("builtins"))
	if err != nil || res.Kind != ResolvedModule || res.Module != table.Builtins() {
		t.Fatalf("builtins = %+v,%v", res, err)
	}
	_, err = table.ResolveName(inner, table.Strings.Intern("nope"))
	wantKind(t, err, ErrNotFound)

	if err := table.SetBindingType(shadow, ti.Builtins().U8); err != nil {
		t.Fatalf("set type: %v", err)
	}
	if err := table.SetBindingType(shadow, ti.Builtins().U16); !errors.Is(err, ErrBindingTypeFixed) {
		t.Fatalf("second set err = %v", err)
	}
	if err := table.SetBindingType(bx, ti.Builtins().U8); !errors.Is(err, ErrBindingTypeFixed) {
		t.Fatalf("concrete binding should be fixed, err = %v", err)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

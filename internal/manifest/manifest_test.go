package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/types"
)

func decodeString(t *testing.T, name, content string) (*Manifest, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(content))
	return Decode(fs.Get(id))
}

const sampleTOML = `target = "x86_64-linux-gnu"

[crate]
name = "geom"

[[module]]
path = "shapes"
exported = true

[[struct]]
module = "shapes"
name = "Point"
exported = true
fields = [
  { name = "x", type = "i32" },
  { name = "y", type = "i32" },
]

[[alias]]
name = "PointPtr"
type = "*mut shapes.Point"

[[use]]
path = "geom.shapes.Point"

[[fn]]
name = "printf"
abi = "c"
params = ["[*]u8"]
variadic = true
ret = "i32"
`

func TestDecodeTOML(t *testing.T) {
	m, err := decodeString(t, "decls.toml", sampleTOML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Crate.Name != "geom" || m.Format != FormatTOML {
		t.Fatalf("unexpected crate: %+v", m.Crate)
	}
	if len(m.Structs) != 1 || len(m.Structs[0].Fields) != 2 {
		t.Fatalf("structs not decoded: %+v", m.Structs)
	}
	if got := m.Structs[0].Fields[1].Syntax; got.Kind != resolve.ExprPath || got.Path[0] != "i32" {
		t.Fatalf("field syntax = %+v", got)
	}
	alias := m.Aliases[0].Syntax
	if alias.Kind != resolve.ExprPointer || !alias.Mutable || len(alias.Elem.Path) != 2 {
		t.Fatalf("alias syntax = %+v", alias)
	}
	fn := m.Fns[0].Syntax
	if fn.ABI != types.ABIC || !fn.Variadic || len(fn.Elems) != 1 || fn.Result == nil {
		t.Fatalf("fn syntax = %+v", fn)
	}
	if m.Structs[0].Span.Empty() {
		t.Fatalf("struct span missing")
	}
	if m.Decls() != 5 {
		t.Fatalf("Decls() = %d, want 5", m.Decls())
	}
}

func TestDecodeTOMLUnknownKey(t *testing.T) {
	_, err := decodeString(t, "decls.toml", "[crate]\nname = \"a\"\ncolour = \"red\"\n")
	var me *Error
	if !errors.As(err, &me) || me.Kind != ErrUnknownKey {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if me.Span.Empty() {
		t.Fatalf("unknown key should point at its line")
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `crate:
  name: app
struct:
  - name: Node
    fields:
      - {name: next, type: "*Node"}
      - {name: value, type: "u64 | ()"}
use:
  - module: ""
    path: super.x
`
	m, err := decodeString(t, "decls.yaml", src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Format != FormatYAML || m.Structs[0].Name != "Node" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	v := m.Structs[0].Fields[1].Syntax
	if v.Kind != resolve.ExprVariant || len(v.Elems) != 2 || v.Elems[1].Kind != resolve.ExprTuple {
		t.Fatalf("variant syntax = %+v", v)
	}
	if m.Structs[0].Span.Empty() {
		t.Fatalf("yaml span missing")
	}
}

func TestDecodeYAMLUnknownKey(t *testing.T) {
	_, err := decodeString(t, "decls.yml", "crate:\n  name: a\n  colour: red\n")
	var me *Error
	if !errors.As(err, &me) || me.Kind != ErrUnknownKey {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidateCollectsAll(t *testing.T) {
	src := `target = "pdp11"
[crate]
name = "a"
[[module]]
path = "x.super"
[[alias]]
name = "A"
type = "[3"
`
	_, err := decodeString(t, "bad.toml", src)
	kinds := map[ErrorKind]bool{}
	for _, e := range flatten(err) {
		var me *Error
		if errors.As(e, &me) {
			kinds[me.Kind] = true
		}
	}
	for _, want := range []ErrorKind{ErrUnknownTarget, ErrBadModulePath, ErrBadType} {
		if !kinds[want] {
			t.Fatalf("missing %s in %v", want, err)
		}
	}
}

func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	if err == nil {
		return nil
	}
	return []error{err}
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := decodeString(t, "decls.json", "{}")
	var me *Error
	if !errors.As(err, &me) || me.Kind != ErrRead {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "cool.yaml")
	if err := os.WriteFile(want, []byte("crate: {name: x}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok || got != want {
		t.Fatalf("Find = %q, %v, %v; want %q", got, ok, err, want)
	}
	m, err := Load(source.NewFileSet(), got)
	if err != nil || m.Crate.Name != "x" {
		t.Fatalf("Load = %+v, %v", m, err)
	}
}

package source

import "testing"

func TestInternerBasic(t *testing.T) {
	in := NewInterner()
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
	a := in.Intern("hello")
	if a == NoStringID {
		t.Fatalf("non-empty string interned to NoStringID")
	}
	if b := in.Intern("hello"); b != a {
		t.Fatalf("re-interning returned %d, want %d", b, a)
	}
	if s := in.MustLookup(a); s != "hello" {
		t.Fatalf("lookup returned %q", s)
	}
	if c := in.Intern("world"); c == a {
		t.Fatalf("distinct strings share an ID")
	}
	if in.Len() != 3 {
		t.Fatalf("expected len 3, got %d", in.Len())
	}
	if in.Has(StringID(999)) {
		t.Fatalf("unknown ID reported as valid")
	}
}

func TestInternerNormalizesNFC(t *testing.T) {
	in := NewInterner()
	composed := in.Intern("caf\u00e9")
	decomposed := in.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("canonically equivalent names must share an ID")
	}
	if id, ok := in.Find("cafe\u0301"); !ok || id != composed {
		t.Fatalf("find returned %d,%v", id, ok)
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	in := NewInterner()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid ID")
		}
	}()
	in.MustLookup(StringID(42))
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.toml", []byte("one\ntwo\nthree"))
	start, end := fs.Resolve(Span{File: id, Start: 4, End: 7})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 4}) {
		t.Fatalf("unexpected positions %v %v", start, end)
	}
	line := fs.LineSpan(id, 3)
	if line.Start != 8 || line.End != 13 {
		t.Fatalf("unexpected line span %v", line)
	}
	if got, ok := fs.Lookup("./a.toml"); !ok || got != id {
		t.Fatalf("lookup by path failed")
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Fatalf("unexpected normalization %q %v", out, changed)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Fatalf("unexpected cover %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cover across files must be a no-op")
	}
}

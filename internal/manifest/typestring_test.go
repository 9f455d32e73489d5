package manifest

import (
	"testing"

	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/types"
)

func TestParseTypeForms(t *testing.T) {
	cases := []struct {
		src  string
		kind resolve.ExprKind
	}{
		{"i32", resolve.ExprPath},
		{"a.b.C", resolve.ExprPath},
		{"*T", resolve.ExprPointer},
		{"*mut T", resolve.ExprPointer},
		{"[*]u8", resolve.ExprManyPointer},
		{"[]mut u8", resolve.ExprSlice},
		{"[16]u8", resolve.ExprArray},
		{"()", resolve.ExprTuple},
		{"(i32, bool)", resolve.ExprTuple},
		{"(i32,)", resolve.ExprTuple},
		{"(i32)", resolve.ExprPath},
		{"fn(i32) -> bool", resolve.ExprFn},
		{`extern "c" fn(*u8, ...)`, resolve.ExprFn},
		{"i32 | *T | ()", resolve.ExprVariant},
		{"_", resolve.ExprInfer},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.src)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", tc.src, err)
		}
		if got.Kind != tc.kind {
			t.Fatalf("ParseType(%q).Kind = %d, want %d", tc.src, got.Kind, tc.kind)
		}
	}
}

func TestParseTypeDetails(t *testing.T) {
	s, err := ParseType(`extern "c" fn([*]mut u8, usize, ...) -> *Node`)
	if err != nil {
		t.Fatal(err)
	}
	if s.ABI != types.ABIC || !s.Variadic || len(s.Elems) != 2 {
		t.Fatalf("fn = %+v", s)
	}
	if !s.Elems[0].Mutable || s.Result.Kind != resolve.ExprPointer {
		t.Fatalf("fn parts = %+v", s)
	}

	arr, err := ParseType("[4][2]f32")
	if err != nil {
		t.Fatal(err)
	}
	if arr.Count != 4 || arr.Elem.Count != 2 {
		t.Fatalf("array counts = %d, %d", arr.Count, arr.Elem.Count)
	}

	// the result binds tighter than |
	v, err := ParseType("fn() -> i32 | bool")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != resolve.ExprVariant || v.Elems[0].Kind != resolve.ExprFn {
		t.Fatalf("precedence = %+v", v)
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, src := range []string{
		"", "*", "[3", "[x]T", "(i32", "fn i32", `extern "pascal" fn()`,
		"a.", "i32 extra", "[99999999999]u8", "-i32",
	} {
		if _, err := ParseType(src); err == nil {
			t.Fatalf("ParseType(%q) should fail", src)
		}
	}
}

func TestSyntaxExprInterns(t *testing.T) {
	s, err := ParseType("(*a.B, [2]c)")
	if err != nil {
		t.Fatal(err)
	}
	strs := source.NewInterner()
	span := source.Span{File: 1, Start: 3, End: 9}
	e := s.Expr(strs, span)
	if e.Kind != resolve.ExprTuple || len(e.Elems) != 2 {
		t.Fatalf("expr = %+v", e)
	}
	ptr := e.Elems[0]
	if ptr.Elem == nil || len(ptr.Elem.Path) != 2 || strs.MustLookup(ptr.Elem.Path[1]) != "B" {
		t.Fatalf("path not interned: %+v", ptr)
	}
	if e.Elems[1].Elem.Span != span {
		t.Fatalf("span not propagated")
	}
}

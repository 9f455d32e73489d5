package diag

import (
	"fmt"
	"testing"

	"cool/internal/layout"
	"cool/internal/manifest"
	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/symbols"
	"cool/internal/types"
)

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	d1 := NewError(ResNotFound, source.Span{File: 2, Start: 5, End: 6}, "b")
	d2 := NewError(ResPrivate, source.Span{File: 1, Start: 9, End: 9}, "a")
	d3 := New(SevWarning, ResInfo, source.Span{File: 1, Start: 0, End: 1}, "w")
	for _, d := range []Diagnostic{d1, d2, d1, d3} {
		b.Add(d)
	}
	if b.Len() != 3 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("dedup len=%d", b.Len())
	}
	b.Sort()
	if b.Items()[0].Code != ResPrivate || b.Items()[1].Code != ResNotFound {
		t.Fatalf("sorted = %+v", b.Items())
	}
	if !b.HasErrors() || b.Count(SevError) != 2 {
		t.Fatalf("error counts wrong")
	}
}

func TestFromErrorCodes(t *testing.T) {
	span := source.Span{File: 1, Start: 3, End: 4}
	cases := []struct {
		err  error
		want Code
	}{
		{&symbols.Error{Kind: symbols.ErrPrivate, Name: "x", Path: "pkg.a"}, ResPrivate},
		{fmt.Errorf("use: %w", &symbols.Error{Kind: symbols.ErrTooManySuperKeywords}), ResTooManySuper},
		{&types.MismatchError{Found: 1, Expected: 2}, ResTypeMismatch},
		{&layout.LayoutError{Kind: layout.LayoutErrUndefined, Type: 7}, LayUndefined},
		{&resolve.Error{Kind: resolve.ErrInfiniteSize, Path: "pkg.S"}, ResInfiniteSize},
		{&manifest.Error{Kind: manifest.ErrUnknownKey, Path: "a.toml"}, PrjUnknownKey},
		{fmt.Errorf("plain"), UnknownCode},
	}
	for _, tc := range cases {
		d := FromError(tc.err, span)
		if d.Code != tc.want {
			t.Fatalf("FromError(%v).Code = %s, want %s", tc.err, d.Code.ID(), tc.want.ID())
		}
		if d.Severity != SevError || d.Primary != span {
			t.Fatalf("FromError(%v) = %+v", tc.err, d)
		}
	}

	own := source.Span{File: 2, Start: 1, End: 5}
	d := FromError(&resolve.Error{
		Kind: resolve.ErrCannotBeDefined,
		Path: "pkg.X",
		Span: own,
		Err:  &symbols.Error{Kind: symbols.ErrNotFound, Name: "Missing"},
	}, span)
	if d.Code != ResCannotBeDefined || d.Primary != own || len(d.Notes) != 1 {
		t.Fatalf("cannot-be-defined diag = %+v", d)
	}

	d = FromError(&manifest.Error{Kind: manifest.ErrBadType, Path: "a.toml", Span: own, Msg: "bad"}, span)
	if d.Code != PrjBadTypeString || d.Primary != own {
		t.Fatalf("manifest diag = %+v", d)
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("decls/app.toml", []byte("a\nb\n"), 0)
	diags := []Diagnostic{
		NewError(ResNotFound, source.Span{File: file, Start: 2, End: 3}, "second\nline").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "declared here"),
		New(SevWarning, ResInfo, source.Span{File: file, Start: 0, End: 1}, "first"),
	}
	want := "note RES3002 decls/app.toml:1:1 declared here\n" +
		"warning RES3000 decls/app.toml:1:1 first\n" +
		"error RES3002 decls/app.toml:2:1 second line"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("FormatShort:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

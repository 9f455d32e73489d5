package fuzztests

import (
	"testing"

	"cool/internal/manifest"
	"cool/internal/resolve"
	"cool/internal/source"
	"cool/internal/testkit"
)

func FuzzParseType(f *testing.F) {
	for _, s := range typeSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 512 {
			input = input[:512]
		}
		syn, err := manifest.ParseType(input)
		if err != nil {
			return
		}
		// Whatever parses must convert into an expression without panicking.
		expr := syn.Expr(source.NewInterner(), source.Span{})
		if expr.Kind == resolve.ExprInvalid {
			t.Fatalf("invalid expression for %q", input)
		}
		if expr.Kind == resolve.ExprPath && len(expr.Path) == 0 {
			t.Fatalf("empty path for %q", input)
		}
	})
}

func FuzzDecodeTOML(f *testing.F) {
	addManifestSeeds(f, manifest.FormatTOML)
	f.Add([]byte("[crate]\nname = \"a\"\n"))
	f.Fuzz(func(t *testing.T, input []byte) {
		decodeAndCheck(t, "fuzz.toml", input)
	})
}

func FuzzDecodeYAML(f *testing.F) {
	addManifestSeeds(f, manifest.FormatYAML)
	f.Add([]byte("crate:\n  name: a\n"))
	f.Fuzz(func(t *testing.T, input []byte) {
		decodeAndCheck(t, "fuzz.yaml", input)
	})
}

func decodeAndCheck(t *testing.T, name string, input []byte) {
	input = clampSeed(input)
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, input)
	m, err := manifest.Decode(fs.Get(id))
	if err != nil {
		return
	}
	// Spans are checked against the stored, normalized content.
	if err := testkit.CheckManifestSpans(m, fs.Get(id)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cool/internal/diag"
	"cool/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("[[structs]]\nname = \"Point\"\nfields = [{ name = \"x\", type = \"Missing\" }]\n")
	id := fs.AddVirtual("/work/geom/cool.toml", content)

	start := uint32(strings.Index(string(content), "\"Missing\""))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.ResNotFound, source.Span{File: id, Start: start, End: start + 9}, "cannot find type `Missing`")
	d = d.WithNote(fs.LineSpan(id, 1), "while declaring struct")
	bag.Add(d)
	return bag, fs
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	out := buf.String()

	if !strings.Contains(out, "cool.toml:3:") {
		t.Fatalf("missing location:\n%s", out)
	}
	if !strings.Contains(out, "ERROR "+diag.ResNotFound.ID()) {
		t.Fatalf("missing severity and code:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~~~~~") {
		t.Fatalf("expected 9-column marker:\n%s", out)
	}
	if strings.Contains(out, "note") {
		t.Fatalf("notes should be hidden:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected escape codes:\n%q", out)
	}
}

func TestPrettyNotesAndColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, Color: true})
	out := buf.String()
	if !strings.Contains(out, "while declaring struct") {
		t.Fatalf("note missing:\n%s", out)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected escape codes:\n%q", out)
	}
}

func TestPrettyMax(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.NewError(diag.ResPrivate, source.Span{File: 1}, "second"))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Max: 1})
	out := buf.String()
	if strings.Contains(out, "second") {
		t.Fatalf("max not honored:\n%s", out)
	}
	if !strings.Contains(out, "1 more diagnostic") {
		t.Fatalf("missing truncation footer:\n%s", out)
	}
}

func TestJSONPositions(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeRelative, BaseDir: "/work"}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Location.File != "geom/cool.toml" {
		t.Fatalf("file = %q", d.Location.File)
	}
	if d.Location.StartLine != 3 || d.Location.EndLine != 3 {
		t.Fatalf("lines = %d..%d", d.Location.StartLine, d.Location.EndLine)
	}
	if d.Severity != "ERROR" || d.Code != diag.ResNotFound.ID() {
		t.Fatalf("severity/code = %s %s", d.Severity, d.Code)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAuto, "abs": PathModeAbsolute, "relative": PathModeRelative, "basename": PathModeBasename} {
		got, ok := ParsePathMode(in)
		if !ok || got != want {
			t.Fatalf("ParsePathMode(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePathMode("nope"); ok {
		t.Fatal("expected failure")
	}
}

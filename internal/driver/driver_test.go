package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cool/internal/diag"
)

const geomTOML = `[crate]
name = "geom"

[[module]]
path = "shapes"
exported = true

[[struct]]
name = "Line"
fields = [{ name = "a", type = "shapes.Point" }, { name = "b", type = "shapes.Point" }]

[[struct]]
module = "shapes"
name = "Point"
exported = true
fields = [{ name = "x", type = "i32" }, { name = "y", type = "i32" }]

[[alias]]
name = "PointPtr"
type = "*mut shapes.Point"

[[use]]
path = "shapes.Q"

[[use]]
module = "shapes"
path = "geom.shapes.Point"
alias = "Q"
exported = true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func findItem(t *testing.T, rep *Report, path string) ItemReport {
	t.Helper()
	if rep == nil {
		t.Fatalf("no report")
	}
	for _, it := range rep.Items {
		if it.Path == path {
			return it
		}
	}
	t.Fatalf("item %s not in report", path)
	return ItemReport{}
}

func codes(bag *diag.Bag) map[diag.Code]int {
	out := map[diag.Code]int{}
	for _, d := range bag.Items() {
		out[d.Code]++
	}
	return out
}

func TestRunResolvesForwardReferences(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), Request{Paths: []string{writeFile(t, dir, "geom.toml", geomTOML)}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	if len(res.Passes) != 2 || res.Passes[len(res.Passes)-1].After != 0 {
		t.Fatalf("passes = %+v", res.Passes)
	}
	line := findItem(t, res.Report, "geom.Line")
	if line.Size != 16 || line.Align != 4 || len(line.Fields) != 2 || line.Fields[1].Offset != 8 {
		t.Fatalf("Line layout = %+v", line)
	}
	ptr := findItem(t, res.Report, "geom.PointPtr")
	if ptr.Size != 8 || ptr.Type != "*mut Point" {
		t.Fatalf("PointPtr = %+v", ptr)
	}
	if res.Session == "" || res.Context == nil {
		t.Fatalf("missing session or context")
	}
	if len(res.Timing.Phases) != 4 {
		t.Fatalf("timing phases = %+v", res.Timing.Phases)
	}
}

func TestRunTargetOverride(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), Request{
		Paths:  []string{writeFile(t, dir, "geom.toml", geomTOML)},
		Target: "i686-linux-gnu",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Report.Target != "i686-linux-gnu" {
		t.Fatalf("target = %s", res.Report.Target)
	}
	if ptr := findItem(t, res.Report, "geom.PointPtr"); ptr.Size != 4 {
		t.Fatalf("pointer size on i686 = %d", ptr.Size)
	}
}

func TestRunReportsResolutionErrors(t *testing.T) {
	dir := t.TempDir()
	src := `[crate]
name = "bad"

[[struct]]
name = "S"
fields = [{ name = "s", type = "S" }]

[[alias]]
name = "A"
type = "Missing"
`
	res, err := Run(context.Background(), Request{Paths: []string{writeFile(t, dir, "bad.toml", src)}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := codes(res.Bag)
	if got[diag.ResInfiniteSize] != 1 || got[diag.ResCannotBeDefined] != 1 {
		t.Fatalf("codes = %v", got)
	}
	if s := findItem(t, res.Report, "bad.S"); s.Error == "" {
		t.Fatalf("S should carry an error: %+v", s)
	}
	if len(res.Passes) != 2 || res.Passes[1].Before != res.Passes[1].After {
		t.Fatalf("expected a stalled second pass, got %+v", res.Passes)
	}
	for _, d := range res.Bag.Items() {
		if d.Primary.File == 0 {
			t.Fatalf("diagnostic without a span: %+v", d)
		}
	}
}

func TestRunKeepsGoodManifests(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "geom.toml", geomTOML)
	bad := writeFile(t, dir, "extra.yaml", "crate:\n  name: extra\n  colour: red\n")
	missing := filepath.Join(dir, "missing.toml")

	var mu sync.Mutex
	var events []Event
	sink := SinkFunc(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	res, err := Run(context.Background(), Request{Paths: []string{good, bad, missing, good}, Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := codes(res.Bag)
	if got[diag.PrjUnknownKey] != 1 || got[diag.PrjManifestRead] != 1 {
		t.Fatalf("codes = %v", got)
	}
	findItem(t, res.Report, "geom.Line")

	loadDone := 0
	for _, e := range events {
		if e.Stage == StageLoad && (e.Status == StatusDone || e.Status == StatusError) {
			loadDone++
		}
	}
	if loadDone != 3 {
		t.Fatalf("load completions = %d, want 3 (duplicates collapse)", loadDone)
	}
}

func TestRunDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	req := Request{Paths: []string{writeFile(t, dir, "geom.toml", geomTOML)}, Cache: cache}

	first, err := Run(context.Background(), req)
	if err != nil || first.Cached {
		t.Fatalf("first run: cached=%v err=%v", first.Cached, err)
	}
	second, err := Run(context.Background(), req)
	if err != nil || !second.Cached {
		t.Fatalf("second run: cached=%v err=%v", second.Cached, err)
	}
	if second.Context != nil || len(second.Report.Items) != len(first.Report.Items) {
		t.Fatalf("cached result differs")
	}
	if findItem(t, second.Report, "geom.Line").Size != 16 {
		t.Fatalf("cached layout wrong")
	}

	req.Target = "wasm32"
	third, err := Run(context.Background(), req)
	if err != nil || third.Cached {
		t.Fatalf("target change must miss the cache")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Request{Paths: []string{writeFile(t, dir, "geom.toml", geomTOML)}}); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestCombineOrderSensitive(t *testing.T) {
	a, b := Digest{1}, Digest{2}
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine should depend on order")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"cool/internal/driver"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCollectManifestsExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), "crate: b\n")
	writeFile(t, filepath.Join(dir, "a.toml"), "crate = \"a\"\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.toml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	paths, err := collectManifests([]string{dir, filepath.Join(dir, "a.toml")})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.yaml")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestCollectManifestsEmptyDirectory(t *testing.T) {
	if _, err := collectManifests([]string{t.TempDir()}); err == nil {
		t.Fatal("expected error for a directory without manifests")
	}
}

func TestCollectManifestsKeepsMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.toml")
	paths, err := collectManifests([]string{missing})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(paths) != 1 || paths[0] != missing {
		t.Fatalf("paths = %v", paths)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
	if shouldUseTUI(uiModeOff, "pretty") || !shouldUseTUI(uiModeOn, "json") {
		t.Fatal("explicit modes must win")
	}
}

func TestColorEnabledExplicit(t *testing.T) {
	if on, err := colorEnabled("on", os.Stdout); err != nil || !on {
		t.Fatalf("on = %v, %v", on, err)
	}
	if on, err := colorEnabled("off", os.Stdout); err != nil || on {
		t.Fatalf("off = %v, %v", on, err)
	}
	if _, err := colorEnabled("rainbow", os.Stdout); err == nil {
		t.Fatal("expected error")
	}
}

func TestFilterReport(t *testing.T) {
	rep := &driver.Report{Target: "x86_64-linux-gnu", Items: []driver.ItemReport{
		{Path: "geom.Point"}, {Path: "geom.Line"}, {Path: "shapes.Circle"},
	}}
	got := filterReport(rep, "geom.")
	if len(got.Items) != 2 || got.Target != rep.Target {
		t.Fatalf("filtered = %+v", got)
	}
	if filterReport(rep, "") != rep {
		t.Fatal("empty prefix should return the report as is")
	}
}

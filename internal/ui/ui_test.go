package ui

import (
	"strings"
	"testing"

	"cool/internal/driver"
)

func sampleReport() *driver.Report {
	return &driver.Report{
		Target: "x86_64-linux-gnu",
		Items: []driver.ItemReport{
			{Path: "geom.Line", Kind: "struct", Type: "Line", Size: 16, Align: 4, Fields: []driver.FieldReport{
				{Name: "a", Type: "Point", Offset: 0, Size: 8},
				{Name: "b", Type: "Point", Offset: 8, Size: 8},
			}},
			{Path: "geom.Maybe", Kind: "alias", Type: "*u8 | ()", Size: 8, Align: 8, Union: &driver.UnionReport{Strategy: "nullable-pointer", DiscriminantOffset: -1}},
			{Path: "geom.S", Kind: "struct", Error: "infinite size"},
		},
	}
}

func TestRenderLayoutTable(t *testing.T) {
	out := RenderLayoutTable(sampleReport(), TableOptions{Fields: true})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ITEM") {
		t.Fatalf("header = %q", lines[0])
	}
	// size column is right-aligned under SIZE
	sizeCol := strings.Index(lines[0], "SIZE") + len("SIZE")
	if lines[1][sizeCol-2:sizeCol] != "16" {
		t.Fatalf("size not right-aligned:\n%s", out)
	}
	if !strings.Contains(lines[2], "  .a") || !strings.Contains(lines[3], "@8") {
		t.Fatalf("fields missing:\n%s", out)
	}
	if !strings.Contains(out, "nullable-pointer") || !strings.Contains(lines[5], "infinite size") {
		t.Fatalf("union or error missing:\n%s", out)
	}
	if lines[6] != "target x86_64-linux-gnu, 3 items" {
		t.Fatalf("footer = %q", lines[6])
	}
}

func TestRenderLayoutTableWidth(t *testing.T) {
	out := RenderLayoutTable(sampleReport(), TableOptions{Width: 20})
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n")[:4] {
		if len([]rune(line)) > 20 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestTruncateWide(t *testing.T) {
	if got := Truncate("日本語のモジュール", 7); got != "日本..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestProgressPercent(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("resolve", []string{"a.toml", "b.toml", "a.toml"}, events).(*progressModel)
	if len(m.files) != 2 {
		t.Fatalf("duplicate files not collapsed")
	}
	m.applyEvent(driver.Event{File: "a.toml", Stage: driver.StageLoad, Status: driver.StatusDone})
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent after one file = %v", got)
	}
	m.applyEvent(driver.Event{File: "b.toml", Stage: driver.StageLoad, Status: driver.StatusError})
	m.applyEvent(driver.Event{Stage: driver.StageDeclare, Status: driver.StatusDone, Pending: 4})
	m.applyEvent(driver.Event{Stage: driver.StageSolve, Status: driver.StatusWorking, Pass: 1, Pending: 1})
	if got := m.percent(); got != 0.875 {
		t.Fatalf("percent after pass 1 = %v", got)
	}
	if !strings.Contains(m.View(), "pass 1, 1 pending") {
		t.Fatalf("view missing pass line:\n%s", m.View())
	}
	m.applyEvent(driver.Event{Stage: driver.StageLayout, Status: driver.StatusDone})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent at layout = %v", got)
	}
}

package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelGatesScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeItem, false},
		{LevelDetail, ScopeItem, true},
		{LevelDetail, ScopeDebug, false},
		{LevelDebug, ScopeDebug, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if lvl, err := ParseLevel("DETAIL"); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", lvl, err)
	}
}

func TestRingWrapsOldestFirst(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Fatalf("order = %q, want cde", got)
	}
	if snap[0].Seq >= snap[2].Seq {
		t.Fatalf("sequence numbers not increasing: %d, %d", snap[0].Seq, snap[2].Seq)
	}
}

func TestStreamFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatText)
	st.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: "pass#1"})
	st.Emit(&Event{Kind: KindPoint, Scope: ScopeItem, Name: "struct:pkg.S"})
	out := buf.String()
	if !strings.Contains(out, "pass#1") || strings.Contains(out, "struct:pkg.S") {
		t.Fatalf("unexpected stream output:\n%s", out)
	}
}

func TestNDJSONLine(t *testing.T) {
	ev := &Event{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Seq:     7,
		Kind:    KindSpanEnd,
		Scope:   ScopePass,
		SpanID:  3,
		Session: "s-1",
		Name:    "pass#2",
		Extra:   map[string]string{"defined": "4"},
	}
	line := FormatEvent(ev, FormatNDJSON)
	if !bytes.HasSuffix(line, []byte("\n")) {
		t.Fatalf("missing newline: %q", line)
	}
	var got map[string]any
	if err := json.Unmarshal(line, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["kind"] != "end" || got["scope"] != "pass" || got["session"] != "s-1" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if _, ok := got["parent_id"]; ok {
		t.Fatalf("parent_id should be omitted for roots")
	}
}

func TestTextExtraSorted(t *testing.T) {
	ev := &Event{Kind: KindPoint, Name: "n", Extra: map[string]string{"b": "2", "a": "1"}}
	if got := string(FormatEvent(ev, FormatText)); !strings.Contains(got, "{a=1, b=2}") {
		t.Fatalf("extra not sorted: %q", got)
	}
}

func TestSpanPropagation(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	ctx := WithSession(WithTracer(context.Background(), r), "run-1")

	ctx, outer := BeginCtx(ctx, ScopeDriver, "resolve")
	_, inner := BeginCtx(ctx, ScopePass, "pass#1")
	inner.WithExtra("defined", "2").End("")
	outer.End("ok")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	for _, ev := range snap {
		if ev.Session != "run-1" {
			t.Fatalf("event %q missing session", ev.Name)
		}
	}
	if snap[2].Extra["defined"] != "2" {
		t.Fatalf("extra lost: %v", snap[2].Extra)
	}
}

func TestDisabledSpanIsInert(t *testing.T) {
	s := Begin(Nop, ScopeDriver, "x", 0)
	if s.ID() != 0 {
		t.Fatalf("nop span got id %d", s.ID())
	}
	s.WithExtra("k", "v")
	_ = s.End("")

	r := NewRingTracer(4, LevelPhase)
	if Begin(r, ScopeItem, "item", 0).ID() != 0 {
		t.Fatalf("filtered scope should not allocate a span")
	}
	if len(r.Snapshot()) != 0 {
		t.Fatalf("filtered span emitted events")
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatNDJSON), ring)
	m.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: "load"})
	if len(ring.Snapshot()) != 1 || !strings.Contains(buf.String(), `"name":"load"`) {
		t.Fatalf("event not delivered to all children")
	}
	if got, ok := m.Ring(); !ok || got != ring {
		t.Fatalf("Ring() did not return the ring child")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer reports enabled")
	}
}

func TestNewBuildsSinksForMode(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if _, ok := tr.(*StreamTracer); !ok {
		t.Fatalf("stream mode gave %T", tr)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing})
	if err != nil {
		t.Fatalf("ring: %v", err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("ring mode gave %T", tr)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("both: %v", err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("both mode gave %T", tr)
	}
	if _, ok := m.Ring(); !ok {
		t.Fatalf("both mode lost the ring")
	}
	if _, err := New(Config{Level: LevelPhase, Mode: 8}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range []StorageMode{ModeStream, ModeRing, ModeBoth} {
		got, err := ParseMode(strings.ToUpper(m.String()))
		if err != nil || got != m {
			t.Fatalf("ParseMode(%s) = %v,%v", m, got, err)
		}
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConfigFormatByExtension(t *testing.T) {
	cases := map[string]Format{"": FormatText, "-": FormatText, "run.ndjson": FormatNDJSON, "run.jsonl": FormatNDJSON, "run.log": FormatText}
	for path, want := range cases {
		if got := (Config{OutputPath: path}).format(); got != want {
			t.Fatalf("format(%q) = %v, want %v", path, got, want)
		}
	}
	if got := (Config{OutputPath: "run.log", Format: FormatNDJSON}).format(); got != FormatNDJSON {
		t.Fatalf("explicit format ignored")
	}
}

func TestHeartbeatStopNil(t *testing.T) {
	var h *Heartbeat
	h.Stop()
	if StartHeartbeat(Nop, "", time.Millisecond) != nil {
		t.Fatalf("heartbeat started on disabled tracer")
	}
}

package trace_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"ktfront/internal/trace"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeDriver, false},
		{trace.LevelPhase, trace.ScopePass, true},
		{trace.LevelPhase, trace.ScopeFile, false},
		{trace.LevelDetail, trace.ScopeFile, true},
		{trace.LevelDetail, trace.ScopeDecl, false},
		{trace.LevelDebug, trace.ScopeDecl, true},
		{trace.LevelError, trace.ScopeDecl, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	ctx, pass := trace.Start(ctx, trace.ScopePass, "lower")
	_, file := trace.Start(ctx, trace.ScopeFile, "file:a.kt")
	_, decl := trace.Start(ctx, trace.ScopeDecl, "decl")
	decl.End("")
	file.WithExtra("decls", "3").End("ok")
	pass.End("")

	out := buf.String()
	if strings.Contains(out, "→ decl") {
		t.Fatalf("declaration span leaked at detail level:\n%s", out)
	}
	if !strings.Contains(out, "→ lower") || !strings.Contains(out, "← file:a.kt (ok) {decls=3}") {
		t.Fatalf("unexpected trace:\n%s", out)
	}
}

func TestStartPropagatesParent(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	ctx, outer := trace.Start(ctx, trace.ScopePass, "outer")
	_, inner := trace.Start(ctx, trace.ScopeFile, "inner")
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
}

func TestRingWraps(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ring, trace.ScopeDriver, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", events)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, trace.FormatNDJSON); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 || !strings.Contains(buf.String(), `"kind":"point"`) {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestNewOff(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer reports enabled")
	}
	if span := trace.Begin(tr, trace.ScopeDriver, "x", 0); span.ID() != 0 {
		t.Fatalf("disabled span got an id")
	}
}

func TestParse(t *testing.T) {
	if _, err := trace.ParseLevel("loud"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
	if m, err := trace.ParseMode("BOTH"); err != nil || m != trace.ModeBoth {
		t.Errorf("ParseMode(BOTH) = %v, %v", m, err)
	}
	if f := trace.FormatForPath("out.ndjson"); f != trace.FormatNDJSON {
		t.Errorf("FormatForPath = %v", f)
	}
}

package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	pass := Begin(tr, ScopePass, "naming", 0)
	mod := Begin(tr, ScopeModule, "module:0x1::coin", pass.ID())
	decl := Begin(tr, ScopeDecl, "fun:mint", mod.ID())
	decl.End("")
	mod.End("")
	pass.WithExtra("modules", "1").End("ok")
	if err := tr.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "module:0x1::coin") {
		t.Fatalf("expected module span in output:\n%s", out)
	}
	if strings.Contains(out, "fun:mint") {
		t.Fatalf("decl span must be filtered at detail level:\n%s", out)
	}
	if !strings.Contains(out, "(ok)") || !strings.Contains(out, "modules=1") {
		t.Fatalf("expected detail and extra on pass end:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", got, out)
	}
}

func TestDisabledSpanForwardsParent(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	pass := Begin(ring, ScopePass, "naming", 0)
	mod := Begin(ring, ScopeModule, "module:m", pass.ID())
	if mod.ID() != pass.ID() {
		t.Fatalf("disabled span should report parent id %d, got %d", pass.ID(), mod.ID())
	}
	if mod.End("") != 0 {
		t.Fatalf("disabled span should not measure time")
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeDriver, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", events)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), `"name":"c"`) {
		t.Fatalf("unexpected dump: %s", buf.String())
	}
}

func TestNewAtErrorLevelIsRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if RingOf(tr) == nil {
		t.Fatalf("expected ring tracer at error level, got %T", tr)
	}
	both, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if RingOf(both) == nil {
		t.Fatalf("expected ring inside fanout tracer")
	}
}

func TestContextPropagation(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
	sp := Begin(FromContext(ctx), ScopeDriver, "resolve", CurrentSpan(ctx))
	ctx = WithSpan(ctx, sp)
	if CurrentSpan(ctx) != sp.ID() || sp.ID() == 0 {
		t.Fatalf("span id not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("DETAIL"); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRingTracerTracksOpenSpans(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	pass := Begin(ring, ScopePass, "naming", 0)
	mod := Begin(ring, ScopeModule, "module:0x1::M", pass.ID())
	done := Begin(ring, ScopeDecl, "fun:f", mod.ID())
	done.End("")
	Begin(ring, ScopeDecl, "fun:g", mod.ID())

	open := ring.OpenSpans()
	var names []string
	for _, ev := range open {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "naming,module:0x1::M,fun:g" {
		t.Fatalf("open spans = %v", names)
	}
	if got := len(ring.Snapshot()); got != 2 {
		t.Fatalf("snapshot holds %d events, want 2", got)
	}
}

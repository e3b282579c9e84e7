package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	run := Begin(tr, ScopeDriver, "check", 0)
	file := Begin(tr, ScopeFile, "src/main.rs", run.ID())
	Begin(tr, ScopeCallSite, "println", file.ID()).End("")
	file.WithExtra("calls", "1").End("ok")
	run.End("")

	out := buf.String()
	if strings.Contains(out, "println") {
		t.Fatalf("call site events must be filtered at detail level:\n%s", out)
	}
	if !strings.Contains(out, "file src/main.rs (ok) {calls=1}") {
		t.Fatalf("missing file end event:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", n, out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopePass, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", events)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), `"kind":"point"`) != 2 {
		t.Fatalf("dump = %s", buf.String())
	}
	if ring.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", ring.Dropped())
	}
	buf.Reset()
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "... 1 earlier events dropped\n") {
		t.Fatalf("text dump = %s", buf.String())
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Fatal("both mode must keep a ring")
	}
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatal("tracer lost in context")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must be Nop")
	}
	off, _ := New(Config{Level: LevelOff})
	if off.Enabled() {
		t.Fatal("off tracer enabled")
	}
}

func TestParse(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected level error")
	}
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("disabled tracer must not start a heartbeat")
	}
	ring := NewRingTracer(64, LevelPhase)
	hb := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	events := ring.Snapshot()
	if len(events) < 2 {
		t.Fatalf("expected at least 2 heartbeats, got %d", len(events))
	}
	if events[0].Kind != KindHeartbeat || !strings.HasPrefix(events[0].Detail, "#1 elapsed=") {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	n := len(ring.Snapshot())
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != n {
		t.Fatal("heartbeat kept running after Stop")
	}
}

func TestStartNestsSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopePass, "check")
	_, inner := Start(ctx, ScopeFile, "lib.rs")
	if CurrentSpan(ctx).SpanID != outer.ID() {
		t.Fatalf("context span = %d, want %d", CurrentSpan(ctx).SpanID, outer.ID())
	}
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[1].Name != "lib.rs" || events[1].ParentID != outer.ID() {
		t.Fatalf("inner span not parented: %+v", events[1])
	}

	off := context.Background()
	got, span := Start(off, ScopePass, "noop")
	if got != off || span.ID() != 0 {
		t.Fatal("disabled tracing must not change the context")
	}
}

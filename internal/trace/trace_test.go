package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", LevelOff, false},
		{"off", LevelOff, false},
		{"PHASE", LevelPhase, false},
		{" detail ", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"error", LevelOff, true},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTextNesting(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopePass, "assists")
	_, inner := Start(ctx, ScopeNode, "assist:remove_unused_rec")
	inner.WithExtra("assists", "1").End("")
	outer.End("")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	wantTails := []string{
		"] → assists",
		"]   → assist:remove_unused_rec",
		"]   ← assist:remove_unused_rec {assists=1}",
		"] ← assists",
	}
	for i, want := range wantTails {
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], want)
		}
	}
}

func TestFilteredSpanKeepsParent(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)

	ctx, pass := Start(ctx, ScopePass, "liveness")
	_, file := Start(ctx, ScopeFile, "file:a.nix")
	if file.ID() != pass.ID() {
		t.Fatalf("filtered span id = %d, want parent %d", file.ID(), pass.ID())
	}
	if d := file.WithExtra("k", "v").End(""); d != 0 {
		t.Fatalf("filtered span duration = %v", d)
	}
	pass.End("")

	evs := ring.Snapshot()
	if len(evs) != 2 || evs[0].Name != "liveness" || evs[1].Kind != KindSpanEnd {
		t.Fatalf("events = %+v", evs)
	}
}

func TestMarkUsesParentSpan(t *testing.T) {
	if ParentSpan(context.Background()) != 0 || FromContext(context.Background()) != Nop {
		t.Fatal("empty context must carry Nop and no span")
	}
	ring := NewRingTracer(8, LevelDetail)
	ctx, check := Start(WithTracer(context.Background(), ring), ScopeDriver, "check")
	if ParentSpan(ctx) != check.ID() {
		t.Fatalf("ParentSpan = %d, want %d", ParentSpan(ctx), check.ID())
	}
	Mark(ctx, ScopeFile, "load-error", "b.nix")
	Mark(ctx, ScopeNode, "filtered", "")
	check.End("")

	evs := ring.Snapshot()
	if len(evs) != 3 {
		t.Fatalf("events = %+v", evs)
	}
	if evs[1].Kind != KindPoint || evs[1].ParentID != check.ID() || evs[1].Detail != "b.nix" {
		t.Fatalf("mark = %+v", evs[1])
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeNode, name, 0, "")
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "c,d,e" {
		t.Fatalf("names = %v", names)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "• ") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeDriver, "check", 0).WithExtra("files", "2").End("ok")

	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, ev["kind"].(string))
		if ev["kind"] == "end" {
			extra := ev["extra"].(map[string]any)
			if extra["files"] != "2" || ev["detail"] != "ok" || ev["scope"] != "driver" {
				t.Fatalf("end event = %v", ev)
			}
		}
	}
	if strings.Join(kinds, ",") != "begin,end" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestMultiAndNew(t *testing.T) {
	if NewMultiTracer(nil, Nop) != Nop {
		t.Fatal("multi of disabled tracers must be Nop")
	}
	var buf bytes.Buffer
	tr, ring, err := New(Config{Level: LevelPhase, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeDriver, "diag", 0).End("")
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("ring events = %d, want 2", n)
	}
	if !strings.Contains(buf.String(), "→ diag") {
		t.Fatalf("stream output:\n%s", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	off, ring, err := New(Config{Level: LevelOff})
	if err != nil || off != Nop || ring != nil {
		t.Fatalf("New(off) = %v, %v, %v", off, ring, err)
	}
}

func TestRunID(t *testing.T) {
	var buf bytes.Buffer
	tr, _, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeDriver, "load", 0, "")
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatal(err)
	}
	run, _ := ev["run"].(string)
	if _, err := uuid.Parse(run); err != nil {
		t.Fatalf("run = %q: %v", run, err)
	}

	buf.Reset()
	fixed, _, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf, RunID: "r1"})
	if err != nil {
		t.Fatal(err)
	}
	Point(fixed, ScopeDriver, "load", 0, "")
	if !strings.Contains(buf.String(), `"run":"r1"`) {
		t.Fatalf("ndjson = %s", buf.String())
	}
}

package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq numbers events in emission order across all tracers.
func NextSeq() uint64 { return seqCounter.Add(1) }

func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID reads N out of the "goroutine N [running]:" stack header; 0 if
// the header looks different.
func goroutineID() uint64 {
	var buf [64]byte
	header := string(buf[:runtime.Stack(buf[:], false)])
	rest, ok := strings.CutPrefix(header, "goroutine ")
	if !ok {
		return 0
	}
	num, _, _ := strings.Cut(rest, " ")
	gid, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

func accepts(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span is an open begin event waiting for its end. Spans of a filtered scope
// record nothing but still report the parent through ID.
type Span struct {
	tracer  Tracer
	proto   Event // общие поля begin и end
	started time.Time
}

// Begin opens a span under parent (0 for a root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !accepts(t, scope) {
		return &Span{proto: Event{ParentID: parent}}
	}
	s := &Span{
		tracer: t,
		proto: Event{
			Scope:    scope,
			SpanID:   NextSpanID(),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
		started: time.Now(),
	}
	ev := s.proto
	ev.Time, ev.Kind = s.started, KindSpanBegin
	t.Emit(&ev)
	return s
}

func (s *Span) live() bool { return s != nil && s.tracer != nil && s.tracer.Enabled() }

// WithExtra attaches a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.proto.Extra == nil {
		s.proto.Extra = make(map[string]string, 2)
	}
	s.proto.Extra[key] = value
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	ev := s.proto
	ev.Time, ev.Kind, ev.Detail = time.Now(), KindSpanEnd, detail
	s.tracer.Emit(&ev)
	return ev.Time.Sub(s.started)
}

// ID is what children should use as their parent.
func (s *Span) ID() uint64 {
	switch {
	case s == nil:
		return 0
	case s.proto.SpanID == 0:
		return s.proto.ParentID
	default:
		return s.proto.SpanID
	}
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if !accepts(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}

package trace

import (
	"io"
	"slices"
	"sync"
)

const defaultRingSize = 4096

// RingTracer remembers the most recent events. `nixkit check` dumps it when
// the analysis of a file fails.
type RingTracer struct {
	level Level

	mu   sync.Mutex
	buf  []Event
	next int  // куда писать следующее событие
	wrap bool // buf уже переполнялся
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{level: level, buf: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = NextSeq()
	t.next++
	if t.next == len(t.buf) {
		t.next, t.wrap = 0, true
	}
}

// Snapshot copies the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.wrap {
		return slices.Clone(t.buf[:t.next])
	}
	return slices.Concat(t.buf[t.next:], t.buf[:t.next])
}

// Dump writes Snapshot in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	f := newFormatter(format)
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(f.render(&ev)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

package trace

import (
	"io"
	"sync"
)

// StreamTracer writes every event to w as soon as it is emitted.
// Write errors are dropped: tracing never fails an analysis.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	fmt   *formatter
	runID string
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, fmt: newFormatter(format)}
}

// WithRunID stamps every following event with id, so several runs appended
// to one NDJSON file can be told apart.
func (t *StreamTracer) WithRunID(id string) *StreamTracer {
	t.mu.Lock()
	t.runID = id
	t.mu.Unlock()
	return t
}

func (t *StreamTracer) RunID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runID
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	if ev.RunID == "" {
		ev.RunID = t.runID
	}
	_, _ = t.w.Write(t.fmt.render(ev)) //nolint:errcheck
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w when it is a file opened for the tracer.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok && !isStdStream(t.w) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase names of one file analysis.
const (
	PhaseParse    = "lex+parse"
	PhaseLiveness = "liveness"
	PhaseAssists  = "assists"
)

// Stop ends a phase started by Timer.Begin; note is shown next to its time.
type Stop func(note string)

type phaseStat struct {
	dur   time.Duration
	count int
	note  string
}

// Timer sums time per phase name in first-seen order. It is goroutine-safe,
// so `check` workers can merge their per-file timers into one.
type Timer struct {
	mu    sync.Mutex
	order []string
	stats map[string]*phaseStat
}

func NewTimer() *Timer { return &Timer{stats: make(map[string]*phaseStat)} }

// Begin starts measuring phase name. Calling it on a nil Timer is allowed.
func (t *Timer) Begin(name string) Stop {
	if t == nil {
		return func(string) {}
	}
	started := time.Now()
	return func(note string) {
		t.add(name, phaseStat{dur: time.Since(started), count: 1, note: note})
	}
}

func (t *Timer) add(name string, s phaseStat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.stats[name]
	if !ok {
		cur = &phaseStat{}
		t.stats[name] = cur
		t.order = append(t.order, name)
	}
	cur.dur += s.dur
	cur.count += s.count
	if cur.note == "" {
		cur.note = s.note
	}
}

// Merge folds other into t phase by phase.
func (t *Timer) Merge(other *Timer) {
	if t == nil || other == nil || t == other {
		return
	}
	for _, p := range other.Report().Phases {
		t.add(p.Name, phaseStat{dur: p.dur, count: p.Count, note: p.Note})
	}
}

// PhaseReport is the serializable view of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`

	dur time.Duration
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var (
		rep   Report
		total time.Duration
	)
	for _, name := range t.order {
		s := t.stats[name]
		total += s.dur
		rep.Phases = append(rep.Phases, PhaseReport{
			Name:       name,
			DurationMS: millis(s.dur),
			Count:      s.count,
			Note:       s.note,
			dur:        s.dur,
		})
	}
	rep.TotalMS = millis(total)
	return rep
}

// Summary renders the report for --timings.
func (t *Timer) Summary() string {
	rep := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range rep.Phases {
		fmt.Fprintf(&sb, "  %-12s %8.3f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			fmt.Fprintf(&sb, "  // %s", p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %8.3f ms\n", "total", rep.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 { return d.Seconds() * 1000 }

package observ

import (
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	stop := tm.Begin(PhaseParse)
	stop("12 tokens")
	tm.Begin(PhaseLiveness)("")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %+v", rep.Phases)
	}
	if rep.Phases[0].Name != PhaseParse || rep.Phases[0].Note != "12 tokens" {
		t.Fatalf("first phase = %+v", rep.Phases[0])
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:", "lex+parse", "// 12 tokens", "liveness", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary lacks %q:\n%s", want, sum)
		}
	}
}

func TestTimerMerge(t *testing.T) {
	total := NewTimer()
	for range 3 {
		one := NewTimer()
		one.Begin(PhaseParse)("")
		one.Begin(PhaseAssists)("")
		total.Merge(one)
	}
	rep := total.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %+v", rep.Phases)
	}
	for _, p := range rep.Phases {
		if p.Count != 3 {
			t.Errorf("%s count = %d, want 3", p.Name, p.Count)
		}
	}
	if !strings.Contains(total.Summary(), "x3") {
		t.Fatalf("summary:\n%s", total.Summary())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Begin(PhaseParse)("")
	tm.Merge(NewTimer())
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Fatalf("nil timer report = %+v", rep)
	}
}

func TestTimerRepeatedPhaseAccumulates(t *testing.T) {
	tm := NewTimer()
	tm.Begin(PhaseAssists)("1 offered")
	tm.Begin(PhaseAssists)("0 offered")
	rep := tm.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Count != 2 || rep.Phases[0].Note != "1 offered" {
		t.Fatalf("report = %+v", rep)
	}
}

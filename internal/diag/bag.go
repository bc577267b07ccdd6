package diag

import (
	"cmp"
	"slices"

	"nixkit/internal/source"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means no limit.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors: есть ли хоть одна диагностика уровня Error
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// AtLeast returns a new unlimited bag with the diagnostics of severity min
// or higher, in the current order. The receiver is not modified.
func (b *Bag) AtLeast(floor Severity) *Bag {
	out := NewBag(0)
	for _, d := range b.items {
		if d.Severity >= floor {
			out.items = append(out.items, d)
		}
	}
	return out
}

// Filter returns the diagnostics of the given file whose code is one of codes.
// With no codes every diagnostic of the file is returned.
func (b *Bag) Filter(file source.FileID, codes ...Code) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, d := range b.items {
		if d.Primary.File != file {
			continue
		}
		if len(codes) > 0 && !hasCode(codes, d.Code) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func hasCode(codes []Code, c Code) bool {
	return slices.Contains(codes, c)
}

// Sort orders by file, start, end, severity (most severe first), then code,
// so output is deterministic across runs.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

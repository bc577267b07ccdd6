package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"nixkit/internal/assist"
	"nixkit/internal/source"
)

var (
	// ErrNoEdits is returned for an assist without edits.
	ErrNoEdits = errors.New("assist has no edits")
	// ErrOverlappingEdits is returned when two edits of one assist touch the same bytes.
	ErrOverlappingEdits = errors.New("edits overlap")
	// ErrSpanOutOfRange is returned when an edit does not fit the content.
	ErrSpanOutOfRange = errors.New("edit span out of range")
	// ErrNoAssists is returned when nothing could be selected.
	ErrNoAssists = errors.New("no applicable assists found")
	// ErrAssistNotFound is returned when ApplyModeID names an assist that was not offered.
	ErrAssistNotFound = errors.New("assist id not found")
	// ErrVirtualFile is returned when writing a file that has no backing path.
	ErrVirtualFile = errors.New("target file is virtual")
)

// ApplyMode determines selection strategy for assists.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // первый quickfix, иначе первый вообще
	ApplyModeID
)

// ApplyOptions configures how an assist is selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// Applied records a successfully written assist.
type Applied struct {
	ID        string
	Label     string
	Kind      assist.Kind
	Path      string
	EditCount int
}

// Select picks one assist from the offered list according to opts.
func Select(assists []assist.Assist, opts ApplyOptions) (assist.Assist, error) {
	if len(assists) == 0 {
		return assist.Assist{}, ErrNoAssists
	}
	switch opts.Mode {
	case ApplyModeID:
		for _, a := range assists {
			if a.ID == opts.TargetID {
				return a, nil
			}
		}
		return assist.Assist{}, fmt.Errorf("%w: %q", ErrAssistNotFound, opts.TargetID)
	default:
		for _, a := range assists {
			if a.Kind == assist.QuickFix {
				return a, nil
			}
		}
		return assists[0], nil
	}
}

// Apply validates edits against content and applies them all, or none.
// Edits are applied back to front so earlier offsets stay valid.
func Apply(content []byte, edits []assist.TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return nil, ErrNoEdits
	}
	sorted := append([]assist.TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Delete.Start == sorted[j].Delete.Start {
			return sorted[i].Delete.End < sorted[j].Delete.End
		}
		return sorted[i].Delete.Start < sorted[j].Delete.Start
	})
	size := uint32(len(content))
	for i, e := range sorted {
		if e.Delete.Start > e.Delete.End || e.Delete.End > size {
			return nil, fmt.Errorf("%w: %s (content size %d)", ErrSpanOutOfRange, e.Delete, size)
		}
		if i > 0 && spansConflict(sorted[i-1], e) {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, sorted[i-1].Delete, e.Delete)
		}
	}

	working := append([]byte(nil), content...)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		suffix := append([]byte(nil), working[e.Delete.End:]...)
		working = append(append(working[:e.Delete.Start], e.Insert...), suffix...)
	}
	return working, nil
}

// ApplyAssist applies every edit of a to the content of file.
func ApplyAssist(file *source.File, a assist.Assist) ([]byte, error) {
	for _, e := range a.Edits {
		if e.Delete.File != file.ID {
			return nil, fmt.Errorf("%w: edit targets file %d, not %d", ErrSpanOutOfRange, e.Delete.File, file.ID)
		}
	}
	return Apply(file.Content, a.Edits)
}

// WriteFile stores content at the file's path keeping the original mode.
func WriteFile(file *source.File, content []byte) error {
	if file.Flags&source.FileVirtual != 0 {
		return ErrVirtualFile
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", file.Path, err)
	}
	return nil
}

// ApplyRaw is ApplyAssist over the on-disk bytes of file: edits are mapped
// past a stripped BOM and folded CRLFs, so only the edited bytes change.
func ApplyRaw(file *source.File, a assist.Assist) ([]byte, error) {
	edits := make([]assist.TextEdit, len(a.Edits))
	for i, e := range a.Edits {
		if e.Delete.File != file.ID {
			return nil, fmt.Errorf("%w: edit targets file %d, not %d", ErrSpanOutOfRange, e.Delete.File, file.ID)
		}
		if e.Delete.End > file.Size() {
			return nil, fmt.Errorf("%w: %s past end %d", ErrSpanOutOfRange, e.Delete, file.Size())
		}
		e.Delete = file.RawSpan(e.Delete)
		if file.Flags.Has(source.FileNormalizedCRLF) {
			e.Insert = strings.ReplaceAll(e.Insert, "\n", "\r\n")
		}
		edits[i] = e
	}
	return Apply(file.Raw(), edits)
}

// ApplyToFile applies a and writes the result back to disk.
func ApplyToFile(file *source.File, a assist.Assist, baseDir string) (*Applied, error) {
	content, err := ApplyRaw(file, a)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(file, content); err != nil {
		return nil, err
	}
	return &Applied{
		ID:        a.ID,
		Label:     a.Label,
		Kind:      a.Kind,
		Path:      file.DisplayPath("relative", baseDir),
		EditCount: len(a.Edits),
	}, nil
}

// spansConflict reports whether two edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// (Start == End) never conflict. A zero-length edit conflicts with a non-zero
// span if its position is within that span (Start <= pos < End). For two
// non-zero spans, any overlap yields a conflict.
func spansConflict(a, b assist.TextEdit) bool {
	aStart, aEnd := a.Delete.Start, a.Delete.End
	bStart, bEnd := b.Delete.Start, b.Delete.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

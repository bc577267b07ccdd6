package assist

import (
	"nixkit/internal/diag"
	"nixkit/internal/source"
)

// Kind classifies an assist the way editors group code actions.
type Kind uint8

const (
	QuickFix Kind = iota
	Refactor
	RefactorRewrite
)

func (k Kind) String() string {
	switch k {
	case QuickFix:
		return "quickfix"
	case Refactor:
		return "refactor"
	case RefactorRewrite:
		return "refactor.rewrite"
	default:
		return "unknown"
	}
}

// TextEdit replaces Delete with Insert. Delete may be empty (pure insertion),
// Insert may be empty (pure deletion).
type TextEdit struct {
	Delete source.Span
	Insert string
}

// Assist is a fully formed, self-contained action: it holds no references into the tree.
type Assist struct {
	ID    string
	Label string
	Kind  Kind
	Edits []TextEdit
}

// Request is a cursor (empty Range) or a selection in one file.
type Request struct {
	File  source.FileID
	Range source.Span
}

// DiagnosticProvider hands out the findings of the same revision the tree was built from.
type DiagnosticProvider interface {
	DiagnosticsFor(file source.FileID) []diag.Diagnostic
}

// StaticDiagnostics is a DiagnosticProvider over a fixed list.
type StaticDiagnostics []diag.Diagnostic

func (s StaticDiagnostics) DiagnosticsFor(file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(s))
	for _, d := range s {
		if d.Primary.File == file {
			out = append(out, d)
		}
	}
	return out
}

package diag

import (
	"slices"

	"nixkit/internal/source"
)

// Note points at a secondary location of a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding of the lexer, the parser or the liveness check.
// Code doubles as its kind: assist providers select diagnostics by code.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with one more note; d's notes are not shared.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"nixkit/internal/assist"
	"nixkit/internal/diag"
	"nixkit/internal/source"
)

type LocationJSON struct {
	File      string `json:"file" yaml:"file"`
	StartByte uint32 `json:"start_byte" yaml:"start_byte"`
	EndByte   uint32 `json:"end_byte" yaml:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" yaml:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" yaml:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message" yaml:"message"`
	Location LocationJSON `json:"location" yaml:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity" yaml:"severity"`
	Code     string       `json:"code" yaml:"code"`
	Message  string       `json:"message" yaml:"message"`
	Location LocationJSON `json:"location" yaml:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Count       int              `json:"count" yaml:"count"`
}

type EditJSON struct {
	Location LocationJSON `json:"location" yaml:"location"`
	NewText  string       `json:"new_text" yaml:"new_text"`
	OldText  string       `json:"old_text,omitempty" yaml:"old_text,omitempty"`
}

type AssistJSON struct {
	ID    string     `json:"id" yaml:"id"`
	Label string     `json:"label" yaml:"label"`
	Kind  string     `json:"kind" yaml:"kind"`
	Edits []EditJSON `json:"edits" yaml:"edits"`
}

type AssistsOutput struct {
	Assists []AssistJSON `json:"assists" yaml:"assists"`
	Count   int          `json:"count" yaml:"count"`
}

// MakeLocation resolves span for structured output; positions are 1-based.
func MakeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if fs == nil || int(span.File) >= fs.Len() {
		return loc
	}
	loc.File = displayPath(fs.Get(span.File), fs, pathMode)
	if includePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: MakeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: MakeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

func BuildAssistsOutput(assists []assist.Assist, fs *source.FileSet, opts JSONOpts) AssistsOutput {
	out := AssistsOutput{Assists: make([]AssistJSON, 0, len(assists))}
	for _, a := range assists {
		aj := AssistJSON{ID: a.ID, Label: a.Label, Kind: a.Kind.String(), Edits: make([]EditJSON, len(a.Edits))}
		for i, e := range a.Edits {
			ej := EditJSON{
				Location: MakeLocation(e.Delete, fs, opts.PathMode, opts.IncludePositions),
				NewText:  e.Insert,
			}
			if fs != nil && int(e.Delete.File) < fs.Len() {
				ej.OldText = fs.Get(e.Delete.File).Text(e.Delete)
			}
			aj.Edits[i] = ej
		}
		out.Assists = append(out.Assists, aj)
	}
	out.Count = len(out.Assists)
	return out
}

// Encode serializes v as indented JSON or YAML.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %d is not a structured format", format)
}

func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return Encode(w, BuildDiagnosticsOutput(bag, fs, opts), FormatJSON)
}

func AssistsJSON(w io.Writer, assists []assist.Assist, fs *source.FileSet, opts JSONOpts) error {
	return Encode(w, BuildAssistsOutput(assists, fs, opts), FormatJSON)
}

package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nixkit/internal/diag"
	"nixkit/internal/source"
)

// palette holds the colors of one Pretty call; with color off every func is plain Sprint.
type palette struct {
	err, warn, info, code, path, gutter, caret, note func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		path:   mk(color.FgWhite, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	default:
		return p.info(s.String())
	}
}

// Pretty печатает диагностики bag (ожидается bag.Sort() заранее):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  3 | let x = 1; in rec { }
//	    |               ^~~
//
// затем заметки в том же виде.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(d.Primary, fs, opts.PathMode)
		fmt.Fprintf(w, "%s: %s %s: %s\n", p.path(loc), p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
		writeSnippet(w, d.Primary, fs, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
		}
	}
}

// location: "path:line:col"; spans without a file (I/O errors) print as "<unknown>".
func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || int(sp.File) >= fs.Len() {
		return "<unknown>"
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(f, fs, mode), start.Line, start.Col)
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.DisplayPath("relative", fs.BaseDir())
	default:
		return f.DisplayPath(mode.String(), "")
	}
}

func writeSnippet(w io.Writer, sp source.Span, fs *source.FileSet, context int8, p palette) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	first := start.Line
	if c := uint32(max(context, 0)); c > 0 {
		first = max(start.Line, c+1) - c
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, " %s %s %s\n", p.gutter(fmt.Sprintf("%*d", width, ln)), p.gutter("|"), f.Line(ln))
	}

	line := f.Line(start.Line)
	from := min(int(start.Col-1), len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col-1), len(line))
	}
	marker := "^"
	if n := runewidth.StringWidth(line[from:to]); n > 1 {
		marker += strings.Repeat("~", n-1)
	}
	fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", width), p.gutter("|"), padFor(line[:from]), p.caret(marker))
}

// padFor returns blanks as wide as prefix on screen, keeping tabs so the
// caret lines up whatever the tab width is.
func padFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

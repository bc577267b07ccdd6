package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/sourcegraph/go-diff/diff"

	"nixkit/internal/assist"
	"nixkit/internal/fix"
	"nixkit/internal/source"
)

// Assists lists offered assists, one per line, in resolution order:
//
//	1. [quickfix] Remove unused rec (remove_unused_rec)
//	   delete 1:1-1:5 "rec "
func Assists(w io.Writer, assists []assist.Assist, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	if len(assists) == 0 {
		fmt.Fprintln(w, "no assists")
		return nil
	}
	for i, a := range assists {
		fmt.Fprintf(w, "%d. [%s] %s (%s)\n", i+1, p.note(a.Kind.String()), p.code(a.Label), a.ID)
		for _, e := range a.Edits {
			start, end := fs.Resolve(e.Delete)
			old := fs.Get(e.Delete.File).Text(e.Delete)
			switch {
			case e.Insert == "":
				fmt.Fprintf(w, "   delete %d:%d-%d:%d %q\n", start.Line, start.Col, end.Line, end.Col, old)
			case old == "":
				fmt.Fprintf(w, "   insert %d:%d %q\n", start.Line, start.Col, e.Insert)
			default:
				fmt.Fprintf(w, "   replace %d:%d-%d:%d %q -> %q\n", start.Line, start.Col, end.Line, end.Col, old, e.Insert)
			}
		}
		if !opts.ShowPreview || len(a.Edits) == 0 {
			continue
		}
		file := fs.Get(a.Edits[0].Delete.File)
		after, err := fix.ApplyAssist(file, a)
		if err != nil {
			return fmt.Errorf("preview %s: %w", a.ID, err)
		}
		h := changedHunk(file.Content, after, 0)
		fmt.Fprintln(w, "   preview:")
		for _, line := range splitLines(h.Body) {
			switch {
			case strings.HasPrefix(line, "-"):
				fmt.Fprintf(w, "     %s\n", p.err("- "+line[1:]))
			case strings.HasPrefix(line, "+"):
				fmt.Fprintf(w, "     %s\n", p.caret("+ "+line[1:]))
			}
		}
	}
	return nil
}

// UnifiedDiff renders before -> after as a single-hunk unified diff with
// context lines around the changed block. Equal inputs render nothing.
func UnifiedDiff(w io.Writer, path string, before, after []byte, context int) error {
	if bytes.Equal(before, after) {
		return nil
	}
	path = strings.TrimPrefix(path, "/")
	fd := &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
		Hunks:    []*diff.Hunk{changedHunk(before, after, context)},
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// changedHunk trims the common leading and trailing lines and keeps up to
// context lines of each around the rest.
func changedHunk(before, after []byte, context int) *diff.Hunk {
	a, b := splitLines(before), splitLines(after)
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	lead := min(context, prefix)
	trail := min(context, suffix)

	var body bytes.Buffer
	for _, l := range a[prefix-lead : prefix] {
		body.WriteString(" " + l + "\n")
	}
	for _, l := range a[prefix : len(a)-suffix] {
		body.WriteString("-" + l + "\n")
	}
	for _, l := range b[prefix : len(b)-suffix] {
		body.WriteString("+" + l + "\n")
	}
	for _, l := range a[len(a)-suffix : len(a)-suffix+trail] {
		body.WriteString(" " + l + "\n")
	}

	origLines := len(a) - prefix - suffix + lead + trail
	newLines := len(b) - prefix - suffix + lead + trail
	return &diff.Hunk{
		OrigStartLine: hunkStart(prefix-lead, origLines),
		OrigLines:     toInt32(origLines),
		NewStartLine:  hunkStart(prefix-lead, newLines),
		NewLines:      toInt32(newLines),
		Body:          body.Bytes(),
	}
}

// hunkStart is 1-based; an empty side points at the line before it.
func hunkStart(skipped, lines int) int32 {
	if lines == 0 {
		return toInt32(skipped)
	}
	return toInt32(skipped + 1)
}

func toInt32(n int) int32 {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Errorf("diff line count overflow: %w", err))
	}
	return v
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}


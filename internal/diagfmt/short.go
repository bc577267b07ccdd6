package diagfmt

import (
	"fmt"
	"io"

	"nixkit/internal/diag"
	"nixkit/internal/source"
)

// Short prints one line per diagnostic and no snippets:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// The line format matches the header of Pretty, so editors' error matchers
// read both.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(d.Primary, fs, opts.PathMode)
		fmt.Fprintf(w, "%s: %s %s: %s\n", p.path(loc), p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
	}
}

package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented rendering of the tree: one line per node
// (`Kind@start..end`) and per token (`Kind@start..end "text"`).
func (t *Tree) Dump(w io.Writer) error {
	return dumpNode(w, t.Root(), 0)
}

// DebugString renders the tree the way Dump does.
func (t *Tree) DebugString() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}

func dumpNode(w io.Writer, n Node, depth int) error {
	sp := n.Span()
	if _, err := fmt.Fprintf(w, "%s%s@%d..%d\n", strings.Repeat("  ", depth), n.Kind(), sp.Start, sp.End); err != nil {
		return err
	}
	for _, ch := range n.Children() {
		if c, ok := ch.AsNode(); ok {
			if err := dumpNode(w, c, depth+1); err != nil {
				return err
			}
			continue
		}
		tok, _ := ch.AsToken()
		tsp := tok.Span()
		if _, err := fmt.Fprintf(w, "%s%s@%d..%d %s\n", strings.Repeat("  ", depth+1), tok.Kind(), tsp.Start, tsp.End, strconv.Quote(tok.Text())); err != nil {
			return err
		}
	}
	return nil
}

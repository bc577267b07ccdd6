// Package testkit holds structural checks shared by parser tests and the fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

// CheckTreeInvariants runs the structural invariants of a parsed file:
// 1) the tokens reassemble the file content exactly
// 2) the root spans the whole content and points at the file
// 3) tokens are contiguous in document order
// 4) every child lies inside its parent, siblings are contiguous and the
// parent links point back
func CheckTreeInvariants(tree *syntax.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}

	// 1) lossless
	if got := tree.Text(); got != string(sf.Content) {
		return fmt.Errorf("tree text differs from content: %d bytes vs %d", len(got), len(sf.Content))
	}

	// 2) root span
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	root := tree.Root()
	if sp := root.Span(); sp.File != sf.ID || sp.Start != 0 || sp.End != lenContent {
		return fmt.Errorf("root span %v does not cover file %d [0,%d)", sp, sf.ID, lenContent)
	}

	// 3) token order
	var prevEnd uint32
	for i := 1; i <= tree.NumTokens(); i++ {
		id, err := safecast.Conv[syntax.TokenID](i)
		if err != nil {
			return err
		}
		sp := tree.Token(id).Span()
		if sp.Start != prevEnd || sp.End < sp.Start {
			return fmt.Errorf("token %d span %v does not follow offset %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
	}

	// 4) nesting
	return checkNode(root)
}

func checkNode(n syntax.Node) error {
	sp := n.Span()
	cur := sp.Start
	for _, ch := range n.Children() {
		csp := ch.Span()
		if csp.Start != cur {
			return fmt.Errorf("%s %v: child at %d, expected %d", n.Kind(), sp, csp.Start, cur)
		}
		if !sp.Contains(csp) {
			return fmt.Errorf("%s %v: child span %v is outside", n.Kind(), sp, csp)
		}
		cur = csp.End
		if tok, ok := ch.AsToken(); ok {
			if tok.Parent().ID() != n.ID() {
				return fmt.Errorf("token %q at %v: parent %s, expected %s", tok.Text(), csp, tok.Parent().Kind(), n.Kind())
			}
			continue
		}
		c, _ := ch.AsNode()
		if p, ok := c.Parent(); !ok || p.ID() != n.ID() {
			return fmt.Errorf("%s %v: broken parent link", c.Kind(), csp)
		}
		if err := checkNode(c); err != nil {
			return err
		}
	}
	if len(n.Children()) > 0 && cur != sp.End {
		return fmt.Errorf("%s %v: children end at %d", n.Kind(), sp, cur)
	}
	return nil
}

package syntax

import (
	"testing"

	"nixkit/internal/source"
	"nixkit/internal/token"
)

// buildRecSet собирает дерево для `rec { a = 1; }` вручную.
func buildRecSet(t *testing.T) *Tree {
	t.Helper()
	const file source.FileID = 1
	var off uint32
	tok := func(k token.Kind, text string) token.Token {
		sp := source.Span{File: file, Start: off, End: off + uint32(len(text))}
		off = sp.End
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	b := NewBuilder(file, Hints{})
	b.StartNode(NodeRoot)
	b.StartNode(NodeAttrSet)
	b.Token(tok(token.KwRec, "rec"))
	b.Token(tok(token.Whitespace, " "))
	b.Token(tok(token.LBrace, "{"))
	b.Token(tok(token.Whitespace, " "))
	b.StartNode(NodeAttrpathValue)
	b.StartNode(NodeAttrpath)
	b.StartNode(NodeName)
	b.Token(tok(token.Ident, "a"))
	b.FinishNode()
	b.FinishNode()
	b.Token(tok(token.Whitespace, " "))
	b.Token(tok(token.Assign, "="))
	b.Token(tok(token.Whitespace, " "))
	b.StartNode(NodeLiteral)
	b.Token(tok(token.IntLit, "1"))
	b.FinishNode()
	b.Token(tok(token.Semicolon, ";"))
	b.FinishNode()
	b.Token(tok(token.Whitespace, " "))
	b.Token(tok(token.RBrace, "}"))
	b.FinishNode()
	b.FinishNode()
	return b.Finish()
}

func TestTreeLosslessAndSpans(t *testing.T) {
	tree := buildRecSet(t)
	if got := tree.Text(); got != "rec { a = 1; }" {
		t.Fatalf("Text() = %q", got)
	}
	root := tree.Root()
	if root.Kind() != NodeRoot || root.Span().Start != 0 || root.Span().End != 14 {
		t.Fatalf("root = %s %v", root.Kind(), root.Span())
	}
	set, ok := AsAttrSet(root.ChildNodes()[0])
	if !ok {
		t.Fatalf("first child is %s, want AttrSet", root.ChildNodes()[0].Kind())
	}
	rec, ok := set.RecToken()
	if !ok || rec.Text() != "rec" {
		t.Fatalf("RecToken() = %v, %v", rec, ok)
	}
	binds := set.Bindings()
	if len(binds) != 1 {
		t.Fatalf("Bindings() = %d, want 1", len(binds))
	}
	if got := binds[0].Text(); got != "a = 1;" {
		t.Fatalf("binding text = %q", got)
	}
	path, _ := binds[0].Attrpath()
	if name, ok := path.Names()[0].Static(); !ok || name != "a" {
		t.Fatalf("name = %q, %v", name, ok)
	}
	val, ok := binds[0].Value()
	if !ok || val.Kind() != NodeLiteral {
		t.Fatalf("Value() = %s, %v", val.Kind(), ok)
	}
}

func TestTokenNavigation(t *testing.T) {
	tree := buildRecSet(t)
	first, ok := tree.Root().FirstToken()
	if !ok || first.Kind() != token.KwRec {
		t.Fatalf("FirstToken() = %v", first.Kind())
	}
	next, ok := first.Next()
	if !ok || next.Kind() != token.Whitespace || !next.IsTrivia() {
		t.Fatalf("Next() = %v", next.Kind())
	}
	prev, ok := next.Prev()
	if !ok || prev.ID() != first.ID() {
		t.Fatalf("Prev() mismatch")
	}
	if _, ok := first.Prev(); ok {
		t.Fatalf("first token must have no Prev")
	}
	last, _ := tree.Root().LastToken()
	if _, ok := last.Next(); ok {
		t.Fatalf("last token must have no Next")
	}
	if last.Kind() != token.RBrace {
		t.Fatalf("LastToken() = %v", last.Kind())
	}
}

func TestTokenAtOffsetPrefersRight(t *testing.T) {
	tree := buildRecSet(t)
	cases := []struct {
		off  uint32
		want token.Kind
		ok   bool
	}{
		{0, token.KwRec, true},
		{2, token.KwRec, true},
		{3, token.Whitespace, true},
		{4, token.LBrace, true},
		{14, token.RBrace, true},
		{15, token.Invalid, false},
	}
	for _, tc := range cases {
		tok, ok := tree.TokenAtOffset(tc.off)
		if ok != tc.ok {
			t.Fatalf("TokenAtOffset(%d) ok = %v", tc.off, ok)
		}
		if ok && tok.Kind() != tc.want {
			t.Errorf("TokenAtOffset(%d) = %v, want %v", tc.off, tok.Kind(), tc.want)
		}
	}
}

func TestCoveringElementAndAncestors(t *testing.T) {
	tree := buildRecSet(t)
	el, ok := tree.CoveringElement(source.Span{File: 1, Start: 0, End: 0})
	if !ok || !el.IsToken() {
		t.Fatalf("cursor at 0 must cover a token")
	}
	var kinds []NodeKind
	for n := range el.Ancestors() {
		kinds = append(kinds, n.Kind())
	}
	if len(kinds) != 2 || kinds[0] != NodeAttrSet || kinds[1] != NodeRoot {
		t.Fatalf("ancestors = %v", kinds)
	}

	// "a = 1" внутри привязки
	el, ok = tree.CoveringElement(source.Span{File: 1, Start: 6, End: 11})
	if !ok {
		t.Fatalf("range must be covered")
	}
	n, isNode := el.AsNode()
	if !isNode || n.Kind() != NodeAttrpathValue {
		t.Fatalf("covering = %v", n.Kind())
	}

	if _, ok := tree.CoveringElement(source.Span{File: 1, Start: 10, End: 40}); ok {
		t.Fatalf("range past the end must not be covered")
	}
	if _, ok := tree.CoveringElement(source.Span{File: 2, Start: 0, End: 0}); ok {
		t.Fatalf("other file must not be covered")
	}
}

func TestCoveringElementAtTriviaBoundary(t *testing.T) {
	// rec /*c*/{}
	const file source.FileID = 1
	var off uint32
	tok := func(k token.Kind, text string) token.Token {
		sp := source.Span{File: file, Start: off, End: off + uint32(len(text))}
		off = sp.End
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	b := NewBuilder(file, Hints{})
	b.StartNode(NodeRoot)
	b.StartNode(NodeAttrSet)
	b.Token(tok(token.KwRec, "rec"))
	b.Token(tok(token.Whitespace, " "))
	b.Token(tok(token.BlockComment, "/*c*/"))
	b.Token(tok(token.LBrace, "{"))
	b.Token(tok(token.RBrace, "}"))
	b.FinishNode()
	b.FinishNode()
	tree := b.Finish()

	cases := []struct {
		name     string
		sp       source.Span
		wantTok  token.Kind
		wantNode NodeKind
	}{
		{"cursor after rec", source.Span{File: file, Start: 3, End: 3}, token.Whitespace, NodeInvalid},
		{"cursor before comment", source.Span{File: file, Start: 4, End: 4}, token.BlockComment, NodeInvalid},
		{"cursor after comment", source.Span{File: file, Start: 9, End: 9}, token.LBrace, NodeInvalid},
		{"cursor at end", source.Span{File: file, Start: 11, End: 11}, token.Invalid, NodeRoot},
		{"whole comment", source.Span{File: file, Start: 4, End: 9}, token.BlockComment, NodeInvalid},
		{"trivia run", source.Span{File: file, Start: 3, End: 9}, token.Invalid, NodeAttrSet},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			el, ok := tree.CoveringElement(tc.sp)
			if !ok {
				t.Fatalf("CoveringElement(%v) not covered", tc.sp)
			}
			if tc.wantTok != token.Invalid {
				tk, isTok := el.AsToken()
				if !isTok || tk.Kind() != tc.wantTok {
					t.Fatalf("CoveringElement(%v) = %v, want token %v", tc.sp, el.Span(), tc.wantTok)
				}
				return
			}
			n, isNode := el.AsNode()
			if !isNode || n.Kind() != tc.wantNode {
				t.Fatalf("CoveringElement(%v) = %v, want node %v", tc.sp, el.Span(), tc.wantNode)
			}
		})
	}
}

func TestDump(t *testing.T) {
	tree := buildRecSet(t)
	got := tree.DebugString()
	want := `Root@0..14
  AttrSet@0..14
    KwRec@0..3 "rec"
    Whitespace@3..4 " "
    LBrace@4..5 "{"
    Whitespace@5..6 " "
    AttrpathValue@6..12
      Attrpath@6..7
        Name@6..7
          Ident@6..7 "a"
      Whitespace@7..8 " "
      Assign@8..9 "="
      Whitespace@9..10 " "
      Literal@10..11
        IntLit@10..11 "1"
      Semicolon@11..12 ";"
    Whitespace@12..13 " "
    RBrace@13..14 "}"
`
	if got != want {
		t.Fatalf("dump mismatch:\n%s", got)
	}
}

func TestBuilderCheckpoint(t *testing.T) {
	const file source.FileID = 1
	b := NewBuilder(file, Hints{})
	b.StartNode(NodeRoot)
	cp := b.Checkpoint()
	b.StartNode(NodeRef)
	b.Token(token.Token{Kind: token.Ident, Span: source.Span{File: file, Start: 0, End: 1}, Text: "f"})
	b.FinishNode()
	b.StartNodeAt(cp, NodeApply)
	b.Token(token.Token{Kind: token.Whitespace, Span: source.Span{File: file, Start: 1, End: 2}, Text: " "})
	b.StartNode(NodeRef)
	b.Token(token.Token{Kind: token.Ident, Span: source.Span{File: file, Start: 2, End: 3}, Text: "x"})
	b.FinishNode()
	b.FinishNode()
	b.FinishNode()
	tree := b.Finish()

	apply := tree.Root().ChildNodes()[0]
	if apply.Kind() != NodeApply {
		t.Fatalf("checkpoint node = %s", apply.Kind())
	}
	refs := apply.ChildNodes()
	if len(refs) != 2 || refs[0].Kind() != NodeRef {
		t.Fatalf("apply children = %d", len(refs))
	}
	parent, ok := refs[0].Parent()
	if !ok || parent.ID() != apply.ID() {
		t.Fatalf("re-parented child has wrong parent")
	}
}

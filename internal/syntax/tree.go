package syntax

import (
	"iter"
	"sort"
	"strings"

	"nixkit/internal/source"
	"nixkit/internal/token"
)

type (
	NodeID  uint32
	TokenID uint32
)

const (
	NoNodeID  NodeID  = 0
	NoTokenID TokenID = 0
)

func (id NodeID) IsValid() bool { return id != NoNodeID }
func (id TokenID) IsValid() bool { return id != NoTokenID }

type nodeData struct {
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	Children []Element
	// первый и последний токен поддерева; NoTokenID у пустого узла
	FirstTok TokenID
	LastTok  TokenID
}

type tokenData struct {
	Tok    token.Token
	Parent NodeID
}

// Tree is an immutable lossless syntax tree of one file revision.
// Tokens are stored in document order, so TokenID+1 is always the next token.
type Tree struct {
	file   source.FileID
	nodes  *Arena[NodeID, nodeData]
	tokens *Arena[TokenID, tokenData]
	root   NodeID
}

func (t *Tree) File() source.FileID { return t.file }

func (t *Tree) Root() Node { return Node{tree: t, id: t.root} }

func (t *Tree) Node(id NodeID) Node { return Node{tree: t, id: id} }

func (t *Tree) Token(id TokenID) Token { return Token{tree: t, id: id} }

func (t *Tree) NumNodes() int { return t.nodes.Len() }

func (t *Tree) NumTokens() int { return t.tokens.Len() }

// Tokens returns a copy of all tokens in document order.
func (t *Tree) Tokens() []token.Token {
	out := make([]token.Token, 0, t.tokens.Len())
	for _, td := range t.tokens.Items() {
		out = append(out, td.Tok)
	}
	return out
}

// Text reassembles the source text from the tokens.
func (t *Tree) Text() string {
	var sb strings.Builder
	for _, td := range t.tokens.Items() {
		sb.WriteString(td.Tok.Text)
	}
	return sb.String()
}

// TokenAtOffset returns the token containing off. On a boundary between two
// tokens the right one wins; off equal to the end of the text yields the last token.
func (t *Tree) TokenAtOffset(off uint32) (Token, bool) {
	toks := t.tokens.Items()
	if len(toks) == 0 {
		return Token{}, false
	}
	last := toks[len(toks)-1].Tok.Span
	if off > last.End {
		return Token{}, false
	}
	i := sort.Search(len(toks), func(i int) bool {
		return toks[i].Tok.Span.End > off
	})
	if i == len(toks) {
		i = len(toks) - 1
	}
	return Token{tree: t, id: TokenID(i + 1)}, true
}

// CoveringElement returns the smallest element whose span contains sp.
// Spans of another file or past the end of the text yield false.
func (t *Tree) CoveringElement(sp source.Span) (Element, bool) {
	if sp.File != t.file || sp.Start > sp.End {
		return Element{}, false
	}
	root := t.Root()
	if !root.Span().Contains(sp) {
		return Element{}, false
	}
	if sp.Empty() {
		if tok, ok := t.TokenAtOffset(sp.Start); ok {
			return tok.Element(), true
		}
		return root.Element(), true
	}
	cur := root
	for {
		next, found := Element{}, false
		for _, ch := range cur.Children() {
			chSpan := ch.Span()
			if chSpan.Empty() || !chSpan.Contains(sp) {
				continue
			}
			next, found = ch, true
			break
		}
		if !found {
			return cur.Element(), true
		}
		n, isNode := next.AsNode()
		if !isNode {
			return next, true
		}
		cur = n
	}
}

// Node is a handle of an inner node.
type Node struct {
	tree *Tree
	id   NodeID
}

func (n Node) ID() NodeID { return n.id }
func (n Node) Tree() *Tree { return n.tree }
func (n Node) IsValid() bool { return n.tree != nil && n.id.IsValid() }
func (n Node) data() *nodeData { return n.tree.nodes.At(n.id) }

func (n Node) Kind() NodeKind {
	if !n.IsValid() {
		return NodeInvalid
	}
	return n.data().Kind
}

func (n Node) Span() source.Span {
	if !n.IsValid() {
		return source.Span{}
	}
	return n.data().Span
}

func (n Node) Element() Element { return Element{tree: n.tree, node: n.id} }

func (n Node) Parent() (Node, bool) {
	if !n.IsValid() {
		return Node{}, false
	}
	p := n.data().Parent
	if !p.IsValid() {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p}, true
}

// Children returns the direct children, tokens included, in document order.
func (n Node) Children() []Element {
	if !n.IsValid() {
		return nil
	}
	kids := n.data().Children
	out := make([]Element, len(kids))
	for i, k := range kids {
		out[i] = Element{tree: n.tree, node: k.node, tok: k.tok}
	}
	return out
}

func (n Node) ChildNodes() []Node {
	var out []Node
	for _, ch := range n.Children() {
		if c, ok := ch.AsNode(); ok {
			out = append(out, c)
		}
	}
	return out
}

func (n Node) ChildTokens() []Token {
	var out []Token
	for _, ch := range n.Children() {
		if c, ok := ch.AsToken(); ok {
			out = append(out, c)
		}
	}
	return out
}

// ChildToken returns the first direct child token of kind k.
func (n Node) ChildToken(k token.Kind) (Token, bool) {
	for _, ch := range n.Children() {
		if tok, ok := ch.AsToken(); ok && tok.Kind() == k {
			return tok, true
		}
	}
	return Token{}, false
}

// ChildNode returns the first direct child node of kind k.
func (n Node) ChildNode(k NodeKind) (Node, bool) {
	for _, ch := range n.Children() {
		if c, ok := ch.AsNode(); ok && c.Kind() == k {
			return c, true
		}
	}
	return Node{}, false
}

func (n Node) FirstToken() (Token, bool) {
	if !n.IsValid() || !n.data().FirstTok.IsValid() {
		return Token{}, false
	}
	return Token{tree: n.tree, id: n.data().FirstTok}, true
}

func (n Node) LastToken() (Token, bool) {
	if !n.IsValid() || !n.data().LastTok.IsValid() {
		return Token{}, false
	}
	return Token{tree: n.tree, id: n.data().LastTok}, true
}

// Ancestors yields the node itself and then its parents up to the root.
func (n Node) Ancestors() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		cur, ok := n, n.IsValid()
		for ok {
			if !yield(cur) {
				return
			}
			cur, ok = cur.Parent()
		}
	}
}

// Text returns the exact source text of the subtree.
func (n Node) Text() string {
	first, ok := n.FirstToken()
	if !ok {
		return ""
	}
	last, _ := n.LastToken()
	var sb strings.Builder
	for id := first.id; id <= last.id; id++ {
		sb.WriteString(n.tree.tokens.At(id).Tok.Text)
	}
	return sb.String()
}

// Token is a handle of a leaf token.
type Token struct {
	tree *Tree
	id   TokenID
}

func (t Token) ID() TokenID { return t.id }
func (t Token) IsValid() bool { return t.tree != nil && t.id.IsValid() }
func (t Token) data() *tokenData { return t.tree.tokens.At(t.id) }
func (t Token) Raw() token.Token { return t.data().Tok }
func (t Token) Kind() token.Kind { return t.data().Tok.Kind }
func (t Token) Span() source.Span { return t.data().Tok.Span }
func (t Token) Text() string { return t.data().Tok.Text }
func (t Token) IsTrivia() bool { return t.data().Tok.IsTrivia() }
func (t Token) Element() Element { return Element{tree: t.tree, tok: t.id} }

func (t Token) Parent() Node { return Node{tree: t.tree, id: t.data().Parent} }

// Next returns the following token in document order, trivia included.
func (t Token) Next() (Token, bool) {
	if !t.IsValid() || int(t.id) >= t.tree.tokens.Len() {
		return Token{}, false
	}
	return Token{tree: t.tree, id: t.id + 1}, true
}

// Prev returns the preceding token in document order, trivia included.
func (t Token) Prev() (Token, bool) {
	if !t.IsValid() || t.id <= 1 {
		return Token{}, false
	}
	return Token{tree: t.tree, id: t.id - 1}, true
}

// Ancestors yields the enclosing nodes from the parent up to the root.
func (t Token) Ancestors() iter.Seq[Node] {
	return t.Parent().Ancestors()
}

// Element is either a node or a token.
type Element struct {
	tree *Tree
	node NodeID
	tok  TokenID
}

func (e Element) IsNode() bool { return e.tree != nil && e.node.IsValid() }
func (e Element) IsToken() bool { return e.tree != nil && e.tok.IsValid() }

func (e Element) AsNode() (Node, bool) {
	if !e.IsNode() {
		return Node{}, false
	}
	return Node{tree: e.tree, id: e.node}, true
}

func (e Element) AsToken() (Token, bool) {
	if !e.IsToken() {
		return Token{}, false
	}
	return Token{tree: e.tree, id: e.tok}, true
}

func (e Element) Span() source.Span {
	if n, ok := e.AsNode(); ok {
		return n.Span()
	}
	if t, ok := e.AsToken(); ok {
		return t.Span()
	}
	return source.Span{}
}

// Ancestors yields the element itself when it is a node, then every enclosing node.
func (e Element) Ancestors() iter.Seq[Node] {
	if n, ok := e.AsNode(); ok {
		return n.Ancestors()
	}
	if t, ok := e.AsToken(); ok {
		return t.Ancestors()
	}
	return func(func(Node) bool) {}
}

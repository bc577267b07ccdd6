package syntax

import (
	"fmt"

	"nixkit/internal/source"
	"nixkit/internal/token"
)

// Checkpoint marks a position in the pending children list so a node can be
// opened retroactively around already built siblings (binary operators, application).
type Checkpoint int

type openNode struct {
	kind  NodeKind
	first int
}

// Builder assembles a Tree bottom-up: StartNode, Token..., FinishNode.
type Builder struct {
	tree     *Tree
	children []Element
	parents  []openNode
	offset   uint32
}

type Hints struct{ Nodes, Tokens uint }

func NewBuilder(file source.FileID, hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 6
	}
	if hints.Tokens == 0 {
		hints.Tokens = 1 << 7
	}
	return &Builder{
		tree: &Tree{
			file:   file,
			nodes:  NewArena[NodeID, nodeData](hints.Nodes),
			tokens: NewArena[TokenID, tokenData](hints.Tokens),
		},
		children: make([]Element, 0, 16),
	}
}

func (b *Builder) StartNode(kind NodeKind) {
	b.parents = append(b.parents, openNode{kind: kind, first: len(b.children)})
}

func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.children))
}

// StartNodeAt opens a node that adopts every child added since cp.
func (b *Builder) StartNodeAt(cp Checkpoint, kind NodeKind) {
	if int(cp) > len(b.children) {
		panic(fmt.Sprintf("syntax: checkpoint %d past pending children %d", cp, len(b.children)))
	}
	if n := len(b.parents); n > 0 && int(cp) < b.parents[n-1].first {
		panic("syntax: checkpoint belongs to a finished node")
	}
	b.parents = append(b.parents, openNode{kind: kind, first: int(cp)})
}

func (b *Builder) Token(tok token.Token) {
	id := b.tree.tokens.Append(tokenData{Tok: tok})
	b.children = append(b.children, Element{tok: id})
	b.offset = tok.Span.End
}

func (b *Builder) FinishNode() NodeID {
	n := len(b.parents)
	if n == 0 {
		panic("syntax: FinishNode without StartNode")
	}
	open := b.parents[n-1]
	b.parents = b.parents[:n-1]

	kids := make([]Element, len(b.children)-open.first)
	copy(kids, b.children[open.first:])
	b.children = b.children[:open.first]

	data := nodeData{
		Kind:     open.kind,
		Span:     source.Span{File: b.tree.file, Start: b.offset, End: b.offset},
		Children: kids,
	}
	if len(kids) > 0 {
		data.Span.Start = b.childSpan(kids[0]).Start
		data.Span.End = b.childSpan(kids[len(kids)-1]).End
		for _, k := range kids {
			if f := b.firstTok(k); f.IsValid() {
				data.FirstTok = f
				break
			}
		}
		for i := len(kids) - 1; i >= 0; i-- {
			if l := b.lastTok(kids[i]); l.IsValid() {
				data.LastTok = l
				break
			}
		}
	}
	id := b.tree.nodes.Append(data)
	for _, k := range kids {
		if k.tok.IsValid() {
			b.tree.tokens.At(k.tok).Parent = id
		} else {
			b.tree.nodes.At(k.node).Parent = id
		}
	}
	b.children = append(b.children, Element{node: id})
	return id
}

// Finish returns the tree; exactly one finished root node must be pending.
func (b *Builder) Finish() *Tree {
	if len(b.parents) != 0 {
		panic(fmt.Sprintf("syntax: %d unfinished nodes", len(b.parents)))
	}
	if len(b.children) != 1 || !b.children[0].node.IsValid() {
		panic("syntax: builder must hold exactly one root node")
	}
	b.tree.root = b.children[0].node
	t := b.tree
	b.tree = nil
	return t
}

func (b *Builder) childSpan(e Element) source.Span {
	if e.tok.IsValid() {
		return b.tree.tokens.At(e.tok).Tok.Span
	}
	return b.tree.nodes.At(e.node).Span
}

func (b *Builder) firstTok(e Element) TokenID {
	if e.tok.IsValid() {
		return e.tok
	}
	return b.tree.nodes.At(e.node).FirstTok
}

func (b *Builder) lastTok(e Element) TokenID {
	if e.tok.IsValid() {
		return e.tok
	}
	return b.tree.nodes.At(e.node).LastTok
}

package syntax

import (
	"strconv"

	"nixkit/internal/token"
)

// AstNode is a typed view over an untyped Node of a fixed kind.
type AstNode interface {
	Syntax() Node
}

type (
	Root          struct{ Node }
	LetIn         struct{ Node }
	AttrSet       struct{ Node }
	AttrpathValue struct{ Node }
	Inherit       struct{ Node }
	Attrpath      struct{ Node }
	Name          struct{ Node }
	Lambda        struct{ Node }
	Param         struct{ Node }
	Pattern       struct{ Node }
	PatField      struct{ Node }
	With          struct{ Node }
	Assert        struct{ Node }
	Ref           struct{ Node }
	Select        struct{ Node }
	HasAttr       struct{ Node }
)

func (n Root) Syntax() Node { return n.Node }
func (n LetIn) Syntax() Node { return n.Node }
func (n AttrSet) Syntax() Node { return n.Node }
func (n AttrpathValue) Syntax() Node { return n.Node }
func (n Inherit) Syntax() Node { return n.Node }
func (n Attrpath) Syntax() Node { return n.Node }
func (n Name) Syntax() Node { return n.Node }
func (n Lambda) Syntax() Node { return n.Node }
func (n Param) Syntax() Node { return n.Node }
func (n Pattern) Syntax() Node { return n.Node }
func (n PatField) Syntax() Node { return n.Node }
func (n With) Syntax() Node { return n.Node }
func (n Assert) Syntax() Node { return n.Node }
func (n Ref) Syntax() Node { return n.Node }
func (n Select) Syntax() Node { return n.Node }
func (n HasAttr) Syntax() Node { return n.Node }

func cast[T any](n Node, k NodeKind, wrap func(Node) T) (T, bool) {
	if n.Kind() != k {
		var zero T
		return zero, false
	}
	return wrap(n), true
}

func AsRoot(n Node) (Root, bool) {
	return cast(n, NodeRoot, func(n Node) Root { return Root{n} })
}

func AsLetIn(n Node) (LetIn, bool) {
	return cast(n, NodeLetIn, func(n Node) LetIn { return LetIn{n} })
}

func AsAttrSet(n Node) (AttrSet, bool) {
	return cast(n, NodeAttrSet, func(n Node) AttrSet { return AttrSet{n} })
}

func AsAttrpathValue(n Node) (AttrpathValue, bool) {
	return cast(n, NodeAttrpathValue, func(n Node) AttrpathValue { return AttrpathValue{n} })
}

func AsInherit(n Node) (Inherit, bool) {
	return cast(n, NodeInherit, func(n Node) Inherit { return Inherit{n} })
}

func AsAttrpath(n Node) (Attrpath, bool) {
	return cast(n, NodeAttrpath, func(n Node) Attrpath { return Attrpath{n} })
}

func AsName(n Node) (Name, bool) {
	return cast(n, NodeName, func(n Node) Name { return Name{n} })
}

func AsLambda(n Node) (Lambda, bool) {
	return cast(n, NodeLambda, func(n Node) Lambda { return Lambda{n} })
}

func AsPattern(n Node) (Pattern, bool) {
	return cast(n, NodePattern, func(n Node) Pattern { return Pattern{n} })
}

func AsPatField(n Node) (PatField, bool) {
	return cast(n, NodePatField, func(n Node) PatField { return PatField{n} })
}

func AsWith(n Node) (With, bool) {
	return cast(n, NodeWith, func(n Node) With { return With{n} })
}

func AsAssert(n Node) (Assert, bool) {
	return cast(n, NodeAssert, func(n Node) Assert { return Assert{n} })
}

func AsRef(n Node) (Ref, bool) {
	return cast(n, NodeRef, func(n Node) Ref { return Ref{n} })
}

func AsSelect(n Node) (Select, bool) {
	return cast(n, NodeSelect, func(n Node) Select { return Select{n} })
}

func AsHasAttr(n Node) (HasAttr, bool) {
	return cast(n, NodeHasAttr, func(n Node) HasAttr { return HasAttr{n} })
}

// firstExpr returns the first expression child; with after set, only children
// past the first token of that kind are considered.
func firstExpr(n Node, after token.Kind, hasAfter bool) (Node, bool) {
	seen := !hasAfter
	for _, ch := range n.Children() {
		if tok, ok := ch.AsToken(); ok {
			if !seen && tok.Kind() == after {
				seen = true
			}
			continue
		}
		if c, ok := ch.AsNode(); ok && seen && c.Kind().IsExpr() {
			return c, true
		}
	}
	return Node{}, false
}

func childrenOf[T any](n Node, k NodeKind, wrap func(Node) T) []T {
	var out []T
	for _, c := range n.ChildNodes() {
		if c.Kind() == k {
			out = append(out, wrap(c))
		}
	}
	return out
}

func (n Root) Expr() (Node, bool) { return firstExpr(n.Node, 0, false) }

func (n LetIn) LetToken() (Token, bool) { return n.ChildToken(token.KwLet) }
func (n LetIn) InToken() (Token, bool) { return n.ChildToken(token.KwIn) }

func (n LetIn) Bindings() []AttrpathValue {
	return childrenOf(n.Node, NodeAttrpathValue, func(n Node) AttrpathValue { return AttrpathValue{n} })
}

func (n LetIn) Inherits() []Inherit {
	return childrenOf(n.Node, NodeInherit, func(n Node) Inherit { return Inherit{n} })
}

func (n LetIn) Body() (Node, bool) { return firstExpr(n.Node, token.KwIn, true) }

// RecToken returns the `rec` keyword of a recursive set.
func (n AttrSet) RecToken() (Token, bool) { return n.ChildToken(token.KwRec) }

func (n AttrSet) IsRec() bool {
	_, ok := n.RecToken()
	return ok
}

func (n AttrSet) Bindings() []AttrpathValue {
	return childrenOf(n.Node, NodeAttrpathValue, func(n Node) AttrpathValue { return AttrpathValue{n} })
}

func (n AttrSet) Inherits() []Inherit {
	return childrenOf(n.Node, NodeInherit, func(n Node) Inherit { return Inherit{n} })
}

func (n AttrpathValue) Attrpath() (Attrpath, bool) {
	c, ok := n.ChildNode(NodeAttrpath)
	return Attrpath{c}, ok
}

func (n AttrpathValue) Value() (Node, bool) { return firstExpr(n.Node, token.Assign, true) }

func (n Attrpath) Names() []Name {
	return childrenOf(n.Node, NodeName, func(n Node) Name { return Name{n} })
}

// Static returns the attribute name when it is an identifier or a plain string.
func (n Name) Static() (string, bool) {
	for _, tok := range n.ChildTokens() {
		switch tok.Kind() {
		case token.Ident, token.KwOr:
			return tok.Text(), true
		case token.StringLit:
			s, err := strconv.Unquote(tok.Text())
			if err != nil {
				return "", false
			}
			return s, true
		}
	}
	return "", false
}

// From returns the parenthesized source of `inherit (e) names;`.
func (n Inherit) From() (Node, bool) { return n.ChildNode(NodeParen) }

func (n Inherit) Names() []Name {
	return childrenOf(n.Node, NodeName, func(n Node) Name { return Name{n} })
}

func (n Lambda) Param() (Param, bool) {
	c, ok := n.ChildNode(NodeParam)
	return Param{c}, ok
}

func (n Lambda) Pattern() (Pattern, bool) {
	c, ok := n.ChildNode(NodePattern)
	return Pattern{c}, ok
}

func (n Lambda) Body() (Node, bool) { return firstExpr(n.Node, token.Colon, true) }

func (n Param) Ident() (Token, bool) { return n.ChildToken(token.Ident) }

func (n Pattern) Fields() []PatField {
	return childrenOf(n.Node, NodePatField, func(n Node) PatField { return PatField{n} })
}

// Binding returns the `@name` alias of the pattern, on either side.
func (n Pattern) Binding() (Param, bool) {
	c, ok := n.ChildNode(NodeParam)
	return Param{c}, ok
}

func (n Pattern) HasEllipsis() bool {
	_, ok := n.ChildToken(token.Ellipsis)
	return ok
}

func (n PatField) Ident() (Token, bool) { return n.ChildToken(token.Ident) }

func (n PatField) Default() (Node, bool) { return firstExpr(n.Node, token.Question, true) }

func (n With) WithToken() (Token, bool) { return n.ChildToken(token.KwWith) }
func (n With) Semicolon() (Token, bool) { return n.ChildToken(token.Semicolon) }
func (n With) Env() (Node, bool) { return firstExpr(n.Node, token.KwWith, true) }
func (n With) Body() (Node, bool) { return firstExpr(n.Node, token.Semicolon, true) }
func (n Assert) Cond() (Node, bool) { return firstExpr(n.Node, token.KwAssert, true) }
func (n Assert) Body() (Node, bool) { return firstExpr(n.Node, token.Semicolon, true) }
func (n Ref) Ident() (Token, bool) { return n.ChildToken(token.Ident) }
func (n Select) Set() (Node, bool) { return firstExpr(n.Node, 0, false) }
func (n Select) Default() (Node, bool) { return firstExpr(n.Node, token.KwOr, true) }
func (n HasAttr) Set() (Node, bool) { return firstExpr(n.Node, 0, false) }

func (n Select) Attrpath() (Attrpath, bool) {
	c, ok := n.ChildNode(NodeAttrpath)
	return Attrpath{c}, ok
}

func (n HasAttr) Attrpath() (Attrpath, bool) {
	c, ok := n.ChildNode(NodeAttrpath)
	return Attrpath{c}, ok
}

package assist

import (
	"slices"

	"nixkit/internal/diag"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

// Context is the state of one resolution shared by all providers.
type Context struct {
	req     Request
	tree    *syntax.Tree
	diags   DiagnosticProvider
	assists []Assist
}

func newContext(req Request, tree *syntax.Tree, diags DiagnosticProvider) *Context {
	return &Context{req: req, tree: tree, diags: diags}
}

func (c *Context) Request() Request { return c.req }
func (c *Context) Tree() *syntax.Tree { return c.tree }
func (c *Context) Assists() []Assist { return c.assists }
func (c *Context) Range() source.Span { return c.req.Range }

// CoveringElement is the smallest element containing the request range.
func (c *Context) CoveringElement() (syntax.Element, bool) {
	if c.tree == nil || c.req.File != c.tree.File() {
		return syntax.Element{}, false
	}
	return c.tree.CoveringElement(c.req.Range)
}

// CoveringNode returns the innermost node on the ancestor chain of the
// covering element that satisfies match.
func (c *Context) CoveringNode(match func(syntax.Node) bool) (syntax.Node, bool) {
	el, ok := c.CoveringElement()
	if !ok {
		return syntax.Node{}, false
	}
	for n := range el.Ancestors() {
		if match(n) {
			return n, true
		}
	}
	return syntax.Node{}, false
}

// Covering returns the innermost enclosing node of the given kind.
func (c *Context) Covering(kind syntax.NodeKind) (syntax.Node, bool) {
	return c.CoveringNode(func(n syntax.Node) bool { return n.Kind() == kind })
}

// Covering is the typed form of (*Context).Covering: the first ancestor that cast accepts.
func Covering[T syntax.AstNode](c *Context, cast func(syntax.Node) (T, bool)) (T, bool) {
	el, ok := c.CoveringElement()
	if !ok {
		var zero T
		return zero, false
	}
	for n := range el.Ancestors() {
		if v, ok := cast(n); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// HasDiagnostic reports whether at least one diagnostic with one of codes
// intersects target. Touching spans count as intersecting.
func (c *Context) HasDiagnostic(target source.Span, codes ...diag.Code) bool {
	if c.diags == nil {
		return false
	}
	for _, d := range c.diags.DiagnosticsFor(c.req.File) {
		if !slices.Contains(codes, d.Code) {
			continue
		}
		if _, ok := d.Primary.Intersect(target); ok {
			return true
		}
	}
	return false
}

// Add registers an assist. Nothing is deduplicated.
func (c *Context) Add(id, label string, kind Kind, edits []TextEdit) {
	c.assists = append(c.assists, Assist{
		ID:    id,
		Label: label,
		Kind:  kind,
		Edits: edits,
	})
}

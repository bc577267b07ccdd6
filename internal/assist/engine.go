package assist

import (
	"context"
	"slices"
	"strconv"

	"nixkit/internal/syntax"
	"nixkit/internal/trace"
)

// Provider contributes zero or more assists for one resolution.
type Provider interface {
	ID() string
	Contribute(ctx *Context)
}

type providerFunc struct {
	id string
	fn func(*Context)
}

func (p providerFunc) ID() string { return p.id }
func (p providerFunc) Contribute(ctx *Context) { p.fn(ctx) }

// NewProvider wraps a plain function as a Provider.
func NewProvider(id string, fn func(*Context)) Provider {
	return providerFunc{id: id, fn: fn}
}

// DefaultProviders is the built-in catalog in its fixed run order.
func DefaultProviders() []Provider {
	return []Provider{
		NewProvider(RemoveUnusedRecID, removeUnusedRec),
		NewProvider(RemoveUnusedBindingID, removeUnusedBinding),
		NewProvider(RemoveUnusedWithID, removeUnusedWith),
		NewProvider(RemoveEmptyLetInID, removeEmptyLetIn),
	}
}

// Engine runs providers in registration order. It is immutable and safe for concurrent use.
type Engine struct {
	providers []Provider
}

func NewEngine(providers ...Provider) *Engine {
	return &Engine{providers: slices.Clone(providers)}
}

// IDs lists provider IDs in run order.
func (e *Engine) IDs() []string {
	ids := make([]string, 0, len(e.providers))
	for _, p := range e.providers {
		ids = append(ids, p.ID())
	}
	return ids
}

// Without returns an engine with the named providers removed; unknown IDs are ignored.
func (e *Engine) Without(ids ...string) *Engine {
	kept := make([]Provider, 0, len(e.providers))
	for _, p := range e.providers {
		if !slices.Contains(ids, p.ID()) {
			kept = append(kept, p)
		}
	}
	return &Engine{providers: kept}
}

// Resolve runs every provider against the request and returns the offered
// assists in provider order. ctx only carries the tracer; the call does no I/O.
func (e *Engine) Resolve(ctx context.Context, req Request, tree *syntax.Tree, diags DiagnosticProvider) []Assist {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "assists", trace.ParentSpan(ctx))

	c := newContext(req, tree, diags)
	for _, p := range e.providers {
		ps := trace.Begin(tracer, trace.ScopeNode, "assist:"+p.ID(), span.ID())
		before := len(c.assists)
		p.Contribute(c)
		ps.WithExtra("assists", strconv.Itoa(len(c.assists)-before)).End("")
	}

	span.WithExtra("assists", strconv.Itoa(len(c.assists))).End("")
	return c.assists
}

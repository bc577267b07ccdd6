package liveness

import (
	"strings"

	"nixkit/internal/diag"
	"nixkit/internal/syntax"
)

func (c *checker) expr(n syntax.Node, sc *scope) {
	if !n.IsValid() {
		return
	}
	switch n.Kind() {
	case syntax.NodeRef:
		ref, _ := syntax.AsRef(n)
		if tok, ok := ref.Ident(); ok {
			sc.resolve(c.intern(tok.Text()), isGlobal(tok.Text()))
		}
	case syntax.NodeLetIn:
		let, _ := syntax.AsLetIn(n)
		c.letIn(let, sc)
	case syntax.NodeAttrSet:
		set, _ := syntax.AsAttrSet(n)
		c.attrSet(set, sc)
	case syntax.NodeLambda:
		lam, _ := syntax.AsLambda(n)
		c.lambda(lam, sc)
	case syntax.NodeWith:
		with, _ := syntax.AsWith(n)
		c.with(with, sc)
	case syntax.NodeSelect:
		sel, _ := syntax.AsSelect(n)
		if set, ok := sel.Set(); ok {
			c.expr(set, sc)
		}
		if def, ok := sel.Default(); ok {
			c.expr(def, sc)
		}
	case syntax.NodeHasAttr:
		has, _ := syntax.AsHasAttr(n)
		if set, ok := has.Set(); ok {
			c.expr(set, sc)
		}
	case syntax.NodeAttrpath, syntax.NodeName:
		// имена атрибутов ссылками не являются
	default:
		for _, ch := range n.ChildNodes() {
			c.expr(ch, sc)
		}
	}
}

// defineBindings вводит имена привязок и inherit в область inner.
func (c *checker) defineBindings(inner *scope, binds []syntax.AttrpathValue, inherits []syntax.Inherit) {
	for _, b := range binds {
		path, ok := b.Attrpath()
		if !ok {
			continue
		}
		names := path.Names()
		if len(names) == 0 {
			continue
		}
		text, ok := names[0].Static()
		if !ok {
			continue
		}
		inner.define(&definition{
			name:    c.intern(text),
			text:    text,
			span:    names[0].Span(),
			binding: b.Node,
		})
	}
	for _, inh := range inherits {
		for _, name := range inh.Names() {
			text, ok := name.Static()
			if !ok {
				continue
			}
			inner.define(&definition{
				name:    c.intern(text),
				text:    text,
				span:    name.Span(),
				binding: inh.Node,
			})
		}
	}
}

// walkBindings обходит значения в области values; `inherit x;` без
// источника ссылается на x из области outer.
func (c *checker) walkBindings(values, outer *scope, binds []syntax.AttrpathValue, inherits []syntax.Inherit) {
	for _, b := range binds {
		if v, ok := b.Value(); ok {
			c.expr(v, values)
		}
	}
	for _, inh := range inherits {
		if from, ok := inh.From(); ok {
			c.expr(from, values)
			continue
		}
		for _, name := range inh.Names() {
			if text, ok := name.Static(); ok {
				outer.resolve(c.intern(text), isGlobal(text))
			}
		}
	}
}

func (c *checker) letIn(let syntax.LetIn, sc *scope) {
	inner := newScope(ScopeLet, sc, let.Node)
	binds, inherits := let.Bindings(), let.Inherits()
	c.defineBindings(inner, binds, inherits)
	c.walkBindings(inner, sc, binds, inherits)
	if body, ok := let.Body(); ok {
		c.expr(body, inner)
	}
	// ошибочные узлы внутри let тоже могут содержать ссылки
	for _, ch := range let.ChildNodes() {
		if ch.Kind() == syntax.NodeError {
			c.expr(ch, inner)
		}
	}
	if c.opts.SkipUnusedBindings {
		return
	}
	for _, d := range inner.order {
		if d.used || ignored(d.text) {
			continue
		}
		c.emit(diag.SevWarning, diag.LiveUnusedBinding, d.span, "unused binding `"+d.text+"`")
	}
}

func (c *checker) attrSet(set syntax.AttrSet, sc *scope) {
	binds, inherits := set.Bindings(), set.Inherits()
	rec, isRec := set.RecToken()
	if !isRec {
		c.walkBindings(sc, sc, binds, inherits)
		return
	}
	inner := newScope(ScopeRec, sc, set.Node)
	c.defineBindings(inner, binds, inherits)
	c.walkBindings(inner, sc, binds, inherits)
	if !inner.anyUsed() {
		c.emit(diag.SevWarning, diag.LiveUnusedRec, rec.Span(), "this `rec` is unused")
	}
}

func (c *checker) lambda(lam syntax.Lambda, sc *scope) {
	inner := newScope(ScopeLambda, sc, lam.Node)
	define := func(p syntax.Param) {
		tok, ok := p.Ident()
		if !ok {
			return
		}
		inner.define(&definition{
			name:    c.intern(tok.Text()),
			text:    tok.Text(),
			span:    tok.Span(),
			binding: p.Node,
		})
	}
	if p, ok := lam.Param(); ok {
		define(p)
	}
	pat, hasPat := lam.Pattern()
	if hasPat {
		if alias, ok := pat.Binding(); ok {
			define(alias)
		}
		for _, f := range pat.Fields() {
			tok, ok := f.Ident()
			if !ok {
				continue
			}
			inner.define(&definition{
				name:    c.intern(tok.Text()),
				text:    tok.Text(),
				span:    tok.Span(),
				binding: f.Node,
			})
		}
		// значения по умолчанию видят все поля шаблона
		for _, f := range pat.Fields() {
			if def, ok := f.Default(); ok {
				c.expr(def, inner)
			}
		}
	}
	if body, ok := lam.Body(); ok {
		c.expr(body, inner)
	}
	for _, d := range inner.order {
		if d.used || ignored(d.text) {
			continue
		}
		c.emit(diag.SevInfo, diag.LiveUnusedParam, d.span, "unused parameter `"+d.text+"`")
	}
}

func (c *checker) with(with syntax.With, sc *scope) {
	if env, ok := with.Env(); ok {
		c.expr(env, sc)
	}
	inner := newScope(ScopeWith, sc, with.Node)
	if body, ok := with.Body(); ok {
		c.expr(body, inner)
	}
	if inner.withUsed {
		return
	}
	kw, ok := with.WithToken()
	if !ok {
		return
	}
	sp := kw.Span()
	if semi, ok := with.Semicolon(); ok {
		sp = sp.Cover(semi.Span())
	}
	c.emit(diag.SevWarning, diag.LiveUnusedWith, sp, "unused `with`")
}

// ignored: имена с ведущим подчёркиванием намеренно не используются
func ignored(name string) bool {
	return strings.HasPrefix(name, "_")
}

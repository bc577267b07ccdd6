package parser

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

// isPatternStart: отличает `{ a, b ? 1, ... }:` от множества атрибутов,
// заглядывая за `{`.
func (p *Parser) isPatternStart() bool {
	first := p.nth(1).Kind
	switch first {
	case token.Ellipsis:
		return true
	case token.RBrace:
		next := p.nth(2).Kind
		return next == token.Colon || next == token.At
	case token.Ident:
		next := p.nth(2).Kind
		return next == token.Comma || next == token.Question || next == token.RBrace
	default:
		return false
	}
}

// parseLambda: `x: e`, `{ ... }: e`, `x @ { ... }: e`, `{ ... } @ x: e`
func (p *Parser) parseLambda() {
	p.start(syntax.NodeLambda)
	if p.at(token.Ident) {
		if p.nth(1).Kind == token.At {
			p.start(syntax.NodePattern)
			p.parseParam()
			p.bump()
			p.parsePatternBody()
			p.finish()
		} else {
			p.parseParam()
		}
	} else {
		p.start(syntax.NodePattern)
		p.parsePatternBody()
		if p.at(token.At) {
			p.bump()
			p.parseParam()
		}
		p.finish()
	}
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after lambda parameter")
	p.parseExpr()
	p.finish()
}

func (p *Parser) parseParam() {
	p.start(syntax.NodeParam)
	p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	p.finish()
}

func (p *Parser) parsePatternBody() {
	if !p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'") {
		return
	}
	for !p.atOr(token.RBrace, token.EOF) {
		switch p.peek().Kind {
		case token.Ellipsis:
			p.bump()
		case token.Ident:
			p.start(syntax.NodePatField)
			p.bump()
			if p.at(token.Question) {
				p.bump()
				p.parseExpr()
			}
			p.finish()
		default:
			if isRecovery(p.peek().Kind) {
				p.err(diag.SynUnclosedBrace, "expected '}' to close the pattern")
				return
			}
			p.errorToken(diag.SynUnexpectedToken, "unexpected \""+p.peek().Text+"\" in pattern")
			continue
		}
		if !p.at(token.Comma) {
			break
		}
		p.bump()
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close the pattern")
}

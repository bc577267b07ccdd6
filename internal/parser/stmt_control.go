package parser

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

// parseIf: `if c then a else b`
func (p *Parser) parseIf() {
	p.start(syntax.NodeIfThenElse)
	p.bump()
	p.parseExpr()
	if p.expect(token.KwThen, diag.SynExpectThen, "expected 'then'") {
		p.parseExpr()
	}
	if p.expect(token.KwElse, diag.SynExpectElse, "expected 'else'") {
		p.parseExpr()
	}
	p.finish()
}

// parseWith: `with env; body`
func (p *Parser) parseWith() {
	p.start(syntax.NodeWith)
	p.bump()
	p.parseExpr()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after with expression")
	p.parseExpr()
	p.finish()
}

// parseAssert: `assert cond; body`
func (p *Parser) parseAssert() {
	p.start(syntax.NodeAssert)
	p.bump()
	p.parseExpr()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assert condition")
	p.parseExpr()
	p.finish()
}

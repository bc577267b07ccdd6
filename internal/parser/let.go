package parser

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

// parseLetIn: `let <bindings> in <expr>`
func (p *Parser) parseLetIn() {
	p.start(syntax.NodeLetIn)
	p.bump()
	p.parseBindings(token.KwIn)
	p.expect(token.KwIn, diag.SynExpectIn, "expected 'in' after let bindings")
	p.parseExpr()
	p.finish()
}

// parseAttrSet: `[rec] { <bindings> }`
func (p *Parser) parseAttrSet() {
	p.start(syntax.NodeAttrSet)
	if p.at(token.KwRec) {
		p.bump()
	}
	if p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after 'rec'") {
		p.parseBindings(token.RBrace)
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	}
	p.finish()
}

// parseBindings крутится до закрывающего токена; каждая итерация
// либо съедает хотя бы один токен, либо выходит.
func (p *Parser) parseBindings(closing token.Kind) {
	for {
		k := p.peek().Kind
		switch {
		case k == closing || k == token.EOF:
			return
		case k == token.KwInherit:
			p.parseInherit()
		case isNameStart(k):
			p.parseAttrpathValue()
		case closing == token.KwIn && k == token.RBrace:
			// `}` посреди let: дальше разбирать бессмысленно
			return
		default:
			p.errorToken(diag.SynUnexpectedToken, "expected binding, got \""+p.peek().Text+"\"")
		}
	}
}

// parseAttrpathValue: `a.b.c = expr;`
func (p *Parser) parseAttrpathValue() {
	p.start(syntax.NodeAttrpathValue)
	p.parseAttrpath()
	if p.expect(token.Assign, diag.SynExpectAssign, "expected '=' after attribute path") {
		p.parseExpr()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after binding")
	p.finish()
}

// parseInherit: `inherit [(expr)] names;`
func (p *Parser) parseInherit() {
	p.start(syntax.NodeInherit)
	p.bump()
	if p.at(token.LParen) {
		p.parseParen()
	}
	for isNameStart(p.peek().Kind) {
		p.parseName()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after inherit")
	p.finish()
}

func (p *Parser) parseAttrpath() {
	p.start(syntax.NodeAttrpath)
	p.parseName()
	for p.at(token.Dot) {
		p.bump()
		p.parseName()
	}
	p.finish()
}

func (p *Parser) parseName() {
	p.start(syntax.NodeName)
	if isNameStart(p.peek().Kind) {
		p.bump()
	} else {
		p.err(diag.SynExpectIdentifier, "expected attribute name, got \""+p.peek().Text+"\"")
	}
	p.finish()
}

func isNameStart(k token.Kind) bool {
	return k == token.Ident || k == token.StringLit || k == token.KwOr
}

package parser

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

// parseExpr: выражение верхнего уровня: составные формы (let, if, with,
// assert, лямбды) разрешены только здесь, а не операндами операторов.
func (p *Parser) parseExpr() {
	switch p.peek().Kind {
	case token.KwLet:
		p.parseLetIn()
	case token.KwIf:
		p.parseIf()
	case token.KwWith:
		p.parseWith()
	case token.KwAssert:
		p.parseAssert()
	case token.Ident:
		if p.nth(1).Kind == token.Colon || p.nth(1).Kind == token.At {
			p.parseLambda()
			return
		}
		p.parseBinary(0)
	case token.LBrace:
		if p.isPatternStart() {
			p.parseLambda()
			return
		}
		p.parseBinary(0)
	default:
		p.parseBinary(0)
	}
}

// parseBinary: разбор операторов по приоритетам (Pratt).
func (p *Parser) parseBinary(minPrec int) {
	cp := p.checkpoint()
	switch p.peek().Kind {
	case token.Bang:
		p.start(syntax.NodeUnaryOp)
		p.bump()
		p.parseBinary(precNot)
		p.finish()
	case token.Minus:
		p.start(syntax.NodeUnaryOp)
		p.bump()
		p.parseBinary(precNegate)
		p.finish()
	default:
		p.parseApplication()
	}

	for {
		k := p.peek().Kind
		if k == token.Question {
			if precHasAttr < minPrec {
				return
			}
			p.b.StartNodeAt(cp, syntax.NodeHasAttr)
			p.bump()
			p.parseAttrpath()
			p.finish()
			continue
		}
		prec, right := binaryPrec(k)
		if prec < 0 || prec < minPrec {
			return
		}
		p.b.StartNodeAt(cp, syntax.NodeBinaryOp)
		p.bump()
		next := prec + 1
		if right {
			next = prec
		}
		p.parseBinary(next)
		p.finish()
	}
}

// parseApplication: `f a b` левоассоциативно
func (p *Parser) parseApplication() {
	cp := p.checkpoint()
	p.parseSelect()
	for isAtomStart(p.peek().Kind) {
		p.b.StartNodeAt(cp, syntax.NodeApply)
		p.parseSelect()
		p.finish()
	}
}

// parseSelect: `e.a.b` с необязательным `or default`
func (p *Parser) parseSelect() {
	cp := p.checkpoint()
	p.parseAtom()
	if !p.at(token.Dot) {
		return
	}
	p.b.StartNodeAt(cp, syntax.NodeSelect)
	p.bump()
	p.parseAttrpath()
	if p.at(token.KwOr) {
		p.bump()
		p.parseSelect()
	}
	p.finish()
}

func (p *Parser) parseAtom() {
	switch p.peek().Kind {
	case token.Ident:
		p.start(syntax.NodeRef)
		p.bump()
		p.finish()
	case token.IntLit, token.FloatLit, token.StringLit, token.PathLit:
		p.start(syntax.NodeLiteral)
		p.bump()
		p.finish()
	case token.LParen:
		p.parseParen()
	case token.LBracket:
		p.parseList()
	case token.LBrace, token.KwRec:
		p.parseAttrSet()
	default:
		p.errorExpr("expected expression, got \"" + p.peek().Text + "\"")
	}
}

func (p *Parser) parseParen() {
	p.start(syntax.NodeParen)
	p.bump()
	p.parseExpr()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	p.finish()
}

func (p *Parser) parseList() {
	p.start(syntax.NodeList)
	p.bump()
	for {
		k := p.peek().Kind
		if k == token.RBracket || k == token.EOF {
			break
		}
		if isAtomStart(k) {
			p.parseSelect()
			continue
		}
		if isRecovery(k) {
			break
		}
		p.errorToken(diag.SynUnexpectedToken, "unexpected \""+p.peek().Text+"\" in list")
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
	p.finish()
}

package parser

import (
	"nixkit/internal/diag"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

// ws: сбрасывает накопленные тривиа в текущий открытый узел
func (p *Parser) ws() {
	for p.pos < len(p.toks) && p.toks[p.pos].IsTrivia() {
		p.b.Token(p.toks[p.pos])
		p.pos++
	}
}

// nth: n-й значимый токен впереди (0 = ближайший); за концом EOF
func (p *Parser) nth(n int) token.Token {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].IsTrivia() {
			continue
		}
		if n == 0 {
			return p.toks[i]
		}
		n--
	}
	return p.eof
}

func (p *Parser) peek() token.Token {
	return p.nth(0)
}

// bump: съедает следующий значимый токен вместе с тривиа перед ним
func (p *Parser) bump() token.Token {
	p.ws()
	if p.pos >= len(p.toks) {
		return p.eof
	}
	tok := p.toks[p.pos]
	p.pos++
	p.b.Token(tok)
	p.lastSpan = tok.Span
	return tok
}

// start открывает узел после ведущих тривиа: они остаются у родителя
func (p *Parser) start(kind syntax.NodeKind) {
	p.ws()
	p.b.StartNode(kind)
}

func (p *Parser) checkpoint() syntax.Checkpoint {
	p.ws()
	return p.b.Checkpoint()
}

func (p *Parser) finish() {
	p.b.FinishNode()
}

// diagnosticSpan: на EOF указываем сразу за последним съеденным токеном
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет, репортим и ничего не съедаем.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) bool {
	if p.at(k) {
		p.bump()
		return true
	}
	p.err(code, msg)
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter != nil {
		if sev == diag.SevError {
			p.opts.CurrentErrors++
		}
		if !p.opts.Enough() {
			p.opts.Reporter.Report(code, sev, sp, msg, nil)
			return true
		}
		return false // достигли максимального количества ошибок
	}
	return false // нет reporter - ничего не записали
}

// isRecovery: токены, на которых ошибочный разбор останавливается, не съедая их
func isRecovery(k token.Kind) bool {
	switch k {
	case token.EOF, token.Semicolon, token.RBrace, token.RBracket, token.RParen,
		token.KwIn, token.KwThen, token.KwElse:
		return true
	default:
		return false
	}
}

// errorExpr: на месте выражения ставим Error-узел; неожиданный токен
// съедается в него, если это не точка восстановления.
func (p *Parser) errorExpr(msg string) {
	p.err(diag.SynExpectExpression, msg)
	p.start(syntax.NodeError)
	if !isRecovery(p.peek().Kind) {
		p.bump()
	}
	p.finish()
}

// errorToken оборачивает один лишний токен в Error-узел.
func (p *Parser) errorToken(code diag.Code, msg string) {
	p.err(code, msg)
	p.start(syntax.NodeError)
	p.bump()
	p.finish()
}

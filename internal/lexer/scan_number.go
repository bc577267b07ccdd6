package lexer

import (
	"nixkit/internal/diag"
	"nixkit/internal/token"
)

// Поддержка: 0, 123, 1.5, .5, 1e3, 2.5E-3.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// дробная часть; "1." без цифр после точки оставляем IntLit + Dot
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			if kind == token.FloatLit {
				tok := lx.emit(start, token.Invalid)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
				return tok
			}
			// "1e" разбирается как число и идентификатор
			lx.cursor.Reset(mark)
			return lx.emit(start, kind)
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.emit(start, kind)
}

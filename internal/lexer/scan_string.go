package lexer

import (
	"nixkit/internal/diag"
	"nixkit/internal/token"
)

// "..." с escape-последовательностями; переводы строк внутри допустимы.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(start, token.StringLit)
		case '\\':
			// escape не валидируем: съедаем '\' и следующий байт
			lx.cursor.Bump()
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(start, token.Invalid)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// ./a/b, ../a, ~/a
func (lx *Lexer) atPathStart() bool {
	c := &lx.cursor
	switch c.Peek() {
	case '.':
		if c.PeekAt(1) == '/' {
			return isPathByte(c.PeekAt(2))
		}
		return c.PeekAt(1) == '.' && c.PeekAt(2) == '/' && isPathByte(c.PeekAt(3))
	case '~':
		return c.PeekAt(1) == '/' && isPathByte(c.PeekAt(2))
	}
	return false
}

func (lx *Lexer) scanPath() token.Token {
	start := lx.cursor.Mark()
	for isPathByte(lx.cursor.Peek()) || lx.cursor.Peek() == '/' || lx.cursor.Peek() == '~' {
		// завершающий '/' не входит в путь
		if lx.cursor.Peek() == '/' && !isPathByte(lx.cursor.PeekAt(1)) {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(start, token.PathLit)
}

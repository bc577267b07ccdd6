package lexer

import (
	"nixkit/internal/diag"
	"nixkit/internal/token"
)

// scanWhitespace коалесцирует пробелы, табы и переводы строк в один токен.
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(start, token.Whitespace)
}

// # ... до \n (сам \n в комментарий не входит)
func (lx *Lexer) scanLineComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	return lx.emit(start, token.LineComment)
}

// /* ... */ без вложенности; незакрытый комментарий тянется до EOF.
func (lx *Lexer) scanBlockComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.emit(start, token.BlockComment)
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(start, token.BlockComment)
	lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
	return tok
}

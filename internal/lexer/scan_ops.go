package lexer

import (
	"strconv"

	"nixkit/internal/diag"
	"nixkit/internal/token"
)

// multiCharOps is ordered longest first so the greedy match wins.
var multiCharOps = []struct {
	text string
	kind token.Kind
}{
	{"...", token.Ellipsis},
	{"++", token.Concat},
	{"//", token.Update},
	{"->", token.Implication},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range multiCharOps {
		if lx.cursor.HasPrefix(op.text) {
			lx.cursor.Advance(len(op.text))
			return lx.emit(start, op.kind)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := singleCharKinds[ch]; ok {
		return lx.emit(start, k)
	}
	// неизвестный символ: дочитываем UTF-8 последовательность целиком
	for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
	tok := lx.emit(start, token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+strconv.Quote(tok.Text))
	return tok
}

var singleCharKinds = map[byte]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'(': token.LParen,
	')': token.RParen,
	';': token.Semicolon,
	'=': token.Assign,
	'.': token.Dot,
	',': token.Comma,
	':': token.Colon,
	'?': token.Question,
	'@': token.At,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'<': token.Lt,
	'>': token.Gt,
	'!': token.Bang,
}

package lexer

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isLetter(b byte) bool { return 'a' <= b|0x20 && b|0x20 <= 'z' }

func isIdentStartByte(b byte) bool { return b == '_' || isLetter(b) }

// идентификаторы Nix допускают ' и - после первого символа
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '\'' || b == '-'
}

func isPathByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '.' || b == '-' || b == '+'
}

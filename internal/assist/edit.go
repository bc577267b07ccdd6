package assist

import (
	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

// lastTrailingTrivia: последний токен непрерывной серии тривиа сразу за anchor,
// или сам anchor, если за ним сразу значимый токен или конец файла.
func lastTrailingTrivia(anchor syntax.Token) syntax.Token {
	last := anchor
	for {
		next, ok := last.Next()
		if !ok || !next.IsTrivia() {
			return last
		}
		last = next
	}
}

// TrailingTriviaSpan covers anchor and the whitespace and comments that
// directly follow it. The next significant token is never included.
func TrailingTriviaSpan(anchor syntax.Token) source.Span {
	return anchor.Span().Cover(lastTrailingTrivia(anchor).Span())
}

// DeleteWithTrailingTrivia removes anchor and its trailing trivia.
func DeleteWithTrailingTrivia(anchor syntax.Token) TextEdit {
	return TextEdit{Delete: TrailingTriviaSpan(anchor)}
}

// ReplaceWithTrailingTrivia replaces anchor and its trailing trivia with text.
func ReplaceWithTrailingTrivia(anchor syntax.Token, text string) TextEdit {
	return TextEdit{Delete: TrailingTriviaSpan(anchor), Insert: text}
}

// DeleteNodeWithTrailingTrivia removes a whole node plus the trivia after its last token.
func DeleteNodeWithTrailingTrivia(n syntax.Node) (TextEdit, bool) {
	last, ok := n.LastToken()
	if !ok {
		return TextEdit{}, false
	}
	return TextEdit{Delete: n.Span().Cover(TrailingTriviaSpan(last))}, true
}

// DeleteRangeWithTrailingTrivia removes everything from first to last and the trivia after last.
func DeleteRangeWithTrailingTrivia(first, last syntax.Token) TextEdit {
	return TextEdit{Delete: first.Span().Cover(TrailingTriviaSpan(last))}
}

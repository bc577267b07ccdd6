package diagfmt

import (
	"fmt"
	"io"

	"nixkit/internal/source"
	"nixkit/internal/token"
)

type TokenOutput struct {
	Kind   string      `json:"kind" yaml:"kind"`
	Text   string      `json:"text,omitempty" yaml:"text,omitempty"`
	Span   source.Span `json:"span" yaml:"span"`
	Trivia bool        `json:"trivia,omitempty" yaml:"trivia,omitempty"`
}

// FormatTokensPretty prints one token per line; trivia is skipped unless withTrivia.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, withTrivia bool) error {
	n := 0
	for _, tok := range tokens {
		if tok.IsTrivia() && !withTrivia {
			continue
		}
		n++
		start, end := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-14s %-20q at %d:%d-%d:%d\n",
			n, tok.Kind.String(), tok.Text, start.Line, start.Col, end.Line, end.Col); err != nil {
			return err
		}
	}
	return nil
}

func BuildTokensOutput(tokens []token.Token, withTrivia bool) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsTrivia() && !withTrivia {
			continue
		}
		out = append(out, TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Span:   tok.Span,
			Trivia: tok.IsTrivia(),
		})
	}
	return out
}

package fuzztests

import (
	"strings"
	"testing"

	"nixkit/internal/lexer"
	"nixkit/internal/source"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.nix", input))
		toks, _ := lexer.TokenizeBag(file, 64)

		var sb strings.Builder
		var prevEnd uint32
		for i, tok := range toks {
			if tok.Span.Start != prevEnd {
				t.Fatalf("token %d %v starts at %d, want %d", i, tok.Kind, tok.Span.Start, prevEnd)
			}
			prevEnd = tok.Span.End
			sb.WriteString(tok.Text)
		}
		if sb.String() != string(file.Content) {
			t.Fatalf("tokens do not reassemble the input %q", file.Content)
		}
	})
}

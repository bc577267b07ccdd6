package parser

import (
	"slices"

	"nixkit/internal/diag"
	"nixkit/internal/lexer"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *syntax.Tree
	Bag  *diag.Bag
}

// Parser: состояние парсера на один файл
type Parser struct {
	toks     []token.Token // все токены файла без EOF, тривиа включительно
	pos      int
	eof      token.Token
	b        *syntax.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного значимого токена
}

// ParseFile лексит и разбирает файл целиком. Дерево строится всегда,
// даже при синтаксических ошибках; ошибки уходят в opts.Reporter.
func ParseFile(file *source.File, opts Options) Result {
	all := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		toks:     all[:len(all)-1],
		eof:      all[len(all)-1],
		b:        syntax.NewBuilder(file.ID, syntax.Hints{Nodes: uint(len(all)/2 + 1), Tokens: uint(len(all))}),
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.parseRoot()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		Tree: p.b.Finish(),
		Bag:  bag,
	}
}

// Parse is ParseFile with diagnostics collected into a fresh bag.
func Parse(file *source.File, maxDiagnostics int) Result {
	bag := diag.NewBag(maxDiagnostics)
	return ParseFile(file, Options{Reporter: &diag.BagReporter{Bag: bag}})
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseRoot: корень файла: ровно одно выражение, затем EOF.
func (p *Parser) parseRoot() {
	p.b.StartNode(syntax.NodeRoot)
	if p.at(token.EOF) {
		p.err(diag.SynExpectExpression, "expected expression, file is empty")
	} else {
		p.parseExpr()
	}
	if !p.at(token.EOF) {
		p.err(diag.SynTrailingInput, "unexpected \""+p.peek().Text+"\" after expression")
		p.start(syntax.NodeError)
		for !p.at(token.EOF) {
			p.bump()
		}
		p.finish()
	}
	p.ws()
	p.b.FinishNode()
}

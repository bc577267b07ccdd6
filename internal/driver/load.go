package driver

import (
	"fmt"
	"io"

	"nixkit/internal/diag"
	"nixkit/internal/lexer"
	"nixkit/internal/parser"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
)

// StdinPath names the virtual file read from standard input.
const StdinPath = "<stdin>"

// Load reads path into a fresh FileSet; "-" reads stdin into a virtual file.
func Load(path string, stdin io.Reader) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		return fs, fs.Get(fs.AddVirtual(StdinPath, content)), nil
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return fs, fs.Get(id), nil
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize returns every token of path including trivia and the final EOF.
func Tokenize(path string, stdin io.Reader, maxDiagnostics int) (*TokenizeResult, error) {
	fs, file, err := Load(path, stdin)
	if err != nil {
		return nil, err
	}
	toks, bag := lexer.TokenizeBag(file, maxDiagnostics)
	return &TokenizeResult{FileSet: fs, File: file, Tokens: toks, Bag: bag}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *syntax.Tree
	Bag     *diag.Bag
}

func Parse(path string, stdin io.Reader, maxDiagnostics int) (*ParseResult, error) {
	fs, file, err := Load(path, stdin)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(file, maxDiagnostics)
	res.Bag.Sort()
	return &ParseResult{FileSet: fs, File: file, Tree: res.Tree, Bag: res.Bag}, nil
}

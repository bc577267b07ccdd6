package parser

import (
	"strings"
	"testing"

	"nixkit/internal/diag"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

func parseSource(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nix", []byte(src))
	res := Parse(fs.Get(id), 0)
	return res.Tree, res.Bag
}

// shape: компактная запись вложенности узлов без токенов
func shape(n syntax.Node) string {
	kids := n.ChildNodes()
	if len(kids) == 0 {
		return n.Kind().String()
	}
	parts := make([]string, 0, len(kids))
	for _, k := range kids {
		parts = append(parts, shape(k))
	}
	return n.Kind().String() + "(" + strings.Join(parts, " ") + ")"
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

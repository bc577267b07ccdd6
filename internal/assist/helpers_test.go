package assist_test

import (
	"context"
	"strings"
	"testing"

	"nixkit/internal/assist"
	"nixkit/internal/fix"
	"nixkit/internal/liveness"
	"nixkit/internal/parser"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

const cursorMarker = "$0"

type fixture struct {
	file  *source.File
	tree  *syntax.Tree
	diags assist.StaticDiagnostics
	req   assist.Request
}

// parseWithCursor убирает маркеры $0 из текста: один маркер означает курсор,
// два означают выделение между ними. Затем разбирает файл и считает liveness.
func parseWithCursor(t *testing.T, text string) fixture {
	t.Helper()
	first := strings.Index(text, cursorMarker)
	if first < 0 {
		t.Fatalf("fixture %q has no %s marker", text, cursorMarker)
	}
	text = text[:first] + text[first+len(cursorMarker):]
	second := first
	if idx := strings.Index(text, cursorMarker); idx >= 0 {
		second = idx
		text = text[:idx] + text[idx+len(cursorMarker):]
	}
	return analyze(t, text, uint32(first), uint32(second))
}

func analyze(t *testing.T, text string, start, end uint32) fixture {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nix", []byte(text))
	file := fs.Get(id)
	res := parser.Parse(file, 0)
	if res.Bag.HasErrors() {
		t.Fatalf("fixture %q does not parse: %v", text, res.Bag.Items())
	}
	return fixture{
		file:  file,
		tree:  res.Tree,
		diags: liveness.Check(res.Tree, liveness.Options{}),
		req:   assist.Request{File: id, Range: source.Span{File: id, Start: start, End: end}},
	}
}

func resolve(fx fixture) []assist.Assist {
	return assist.NewEngine(assist.DefaultProviders()...).Resolve(context.Background(), fx.req, fx.tree, fx.diags)
}

func find(assists []assist.Assist, id string) (assist.Assist, bool) {
	for _, a := range assists {
		if a.ID == id {
			return a, true
		}
	}
	return assist.Assist{}, false
}

// check применяет assist id к фикстуре и сравнивает результат.
func check(t *testing.T, id, text, want string) {
	t.Helper()
	fx := parseWithCursor(t, text)
	a, ok := find(resolve(fx), id)
	if !ok {
		t.Fatalf("%s not offered for %q", id, text)
	}
	got, err := fix.ApplyAssist(fx.file, a)
	if err != nil {
		t.Fatalf("apply %s: %v", id, err)
	}
	if string(got) != want {
		t.Fatalf("%s on %q\n got: %q\nwant: %q", id, text, got, want)
	}
}

func checkNo(t *testing.T, id, text string) {
	t.Helper()
	fx := parseWithCursor(t, text)
	if a, ok := find(resolve(fx), id); ok {
		t.Fatalf("%s unexpectedly offered for %q: %+v", id, text, a)
	}
}

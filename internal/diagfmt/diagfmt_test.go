package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"nixkit/internal/assist"
	"nixkit/internal/diag"
	"nixkit/internal/lexer"
	"nixkit/internal/source"
)

func TestPrettyPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/pkgs/default.nix", []byte("let x = \"unterminated\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 8, End: 22}, "unterminated string"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/pkgs/default.nix:1:9"},
		{"relative", PathModeRelative, "pkgs/default.nix:1:9"},
		{"basename", PathModeBasename, "default.nix:1:9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Errorf("output lacks %q:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "ERROR LEX1002: unterminated string") {
				t.Errorf("header missing:\n%s", out)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.nix", []byte("let\n  x = rec { };\nin x\n"))
	bag := diag.NewBag(0)
	d := diag.New(diag.SevWarning, diag.LiveUnusedRec, source.Span{File: id, Start: 10, End: 13}, "rec is not needed")
	bag.Add(d.WithNote(source.Span{File: id, Start: 14, End: 17}, "set has no bindings"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true, PathMode: PathModeBasename})
	want := "a.nix:2:7: WARNING LIVE3002: rec is not needed\n" +
		" 1 | let\n" +
		" 2 |   x = rec { };\n" +
		"   |       ^~~\n" +
		"  note: a.nix:2:11: set has no bindings\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.nix", []byte("rec {\n  a = 1;\n}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LiveUnusedBinding, source.Span{File: id, Start: 8, End: 9}, "unused binding `a`"))
	bag.Add(diag.New(diag.SevWarning, diag.LiveUnusedRec, source.Span{File: id, Start: 0, End: 3}, "unused rec"))
	bag.Sort()

	var buf bytes.Buffer
	Short(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := "a.nix:1:1: WARNING LIVE3002: unused rec\n" +
		"a.nix:2:3: WARNING LIVE3001: unused binding `a`\n"
	if buf.String() != want {
		t.Fatalf("Short:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// "日本" занимает 4 колонки, "\t" сохраняется как есть
	text := "\t\"日本\" rec"
	id := fs.AddVirtual("w.nix", []byte(text))
	start := uint32(strings.Index(text, "rec"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.LiveUnusedParam, source.Span{File: id, Start: start, End: start + 3}, "m"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if got, want := lines[2], " "+" "+" | "+"\t       ^~~"; got != want {
		t.Fatalf("caret line = %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.nix", []byte("rec { }"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LiveUnusedRec, source.Span{File: id, Start: 0, End: 3}, "m"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}

func TestPrettyWithoutFile(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if buf.String() != "<unknown>: ERROR IO4001: failed to load file\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func sampleAssist(id source.FileID) assist.Assist {
	return assist.Assist{
		ID:    assist.RemoveUnusedRecID,
		Label: "Remove unused rec",
		Kind:  assist.QuickFix,
		Edits: []assist.TextEdit{{Delete: source.Span{File: id, Start: 0, End: 4}}},
	}
}

func TestAssistsPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.nix", []byte("x: 1\nrec { a = 1; }\n"))
	a := sampleAssist(id)
	a.Edits[0].Delete = source.Span{File: id, Start: 5, End: 9}

	var buf bytes.Buffer
	if err := Assists(&buf, []assist.Assist{a}, fs, PrettyOpts{ShowPreview: true}); err != nil {
		t.Fatal(err)
	}
	want := "1. [quickfix] Remove unused rec (remove_unused_rec)\n" +
		"   delete 2:1-2:5 \"rec \"\n" +
		"   preview:\n" +
		"     - rec { a = 1; }\n" +
		"     + { a = 1; }\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := Assists(&buf, nil, fs, PrettyOpts{}); err != nil || buf.String() != "no assists\n" {
		t.Fatalf("empty listing = %q, %v", buf.String(), err)
	}
}

func TestAssistsStructured(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.nix", []byte("rec { a = 1; }"))
	assists := []assist.Assist{sampleAssist(id)}

	var buf bytes.Buffer
	if err := AssistsJSON(&buf, assists, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out AssistsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Assists[0].Kind != "quickfix" {
		t.Fatalf("out = %+v", out)
	}
	e := out.Assists[0].Edits[0]
	if e.OldText != "rec " || e.NewText != "" || e.Location.EndCol != 5 || e.Location.File != "a.nix" {
		t.Fatalf("edit = %+v", e)
	}

	buf.Reset()
	if err := Encode(&buf, BuildAssistsOutput(assists, fs, JSONOpts{}), FormatYAML); err != nil {
		t.Fatal(err)
	}
	var back AssistsOutput
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if back.Assists[0].ID != assist.RemoveUnusedRecID || back.Assists[0].Edits[0].OldText != "rec " {
		t.Fatalf("yaml:\n%s", buf.String())
	}

	if err := Encode(&buf, out, FormatPretty); err == nil {
		t.Fatal("pretty is not a structured format")
	}
}

func TestDiagnosticsJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.nix", []byte("let\n  x = 1;\nin 2"))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LiveUnusedBinding, source.Span{File: id, Start: 6, End: 7}, "unused x"))
	bag.Add(diag.New(diag.SevWarning, diag.LiveUnusedBinding, source.Span{File: id, Start: 8, End: 9}, "second"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "WARNING" || d.Code != "LIVE3001" || d.Location.StartLine != 2 || d.Location.StartCol != 3 {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestUnifiedDiff(t *testing.T) {
	before := []byte("{\n  a = rec {\n    b = 1;\n  };\n}\n")
	after := []byte("{\n  a = {\n    b = 1;\n  };\n}\n")
	var buf bytes.Buffer
	if err := UnifiedDiff(&buf, "x.nix", before, after, 1); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"--- a/x.nix\n", "+++ b/x.nix\n", "@@ -1,3 +1,3 @@", "\n {\n-  a = rec {\n+  a = {\n     b = 1;\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := UnifiedDiff(&buf, "x.nix", before, before, 3); err != nil || buf.Len() != 0 {
		t.Fatalf("equal inputs = %q, %v", buf.String(), err)
	}
}

func TestTokensOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.nix", []byte("rec /* c */ { }"))
	toks, _ := lexer.TokenizeBag(fs.Get(id), 0)

	all := BuildTokensOutput(toks, true)
	sig := BuildTokensOutput(toks, false)
	if len(all) <= len(sig) {
		t.Fatalf("trivia not filtered: %d vs %d", len(all), len(sig))
	}
	for _, tok := range sig {
		if tok.Trivia {
			t.Fatalf("trivia token in significant list: %+v", tok)
		}
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "/* c */") || !strings.Contains(buf.String(), "\"rec\"") {
		t.Fatalf("pretty tokens:\n%s", buf.String())
	}
}

package fuzztests

import (
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var seeds = []string{
	"",
	"1",
	"rec { a = 1; }",
	"let a = 1; in rec { a = 3; b = a + 1; }",
	"rec /* trivia */ { a = 3; }",
	"let x = 1; in with builtins; x",
	"let in 1",
	"{ a.b.c = \"s\"; \"quoted\" = ./path/to; inherit (x) y z; }",
	"x: { y ? x, ... }@z: [ x y z ]",
	"if a then b else c",
	"assert a; let b = a.c or d; in b ? e",
	"  # leading comment\nlet\n  x = 1;  # tail\nin\n  x\n\n",
	"let x = ; in",
	"rec { a = { b = rec { }; }; }",
	"]]]",
	"\"unterminated",
	"/* open comment",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"nixkit/internal/diagfmt"
)

type runResult struct {
	stdout, stderr string
	err            error
}

// run executes a fresh command tree with an isolated cache directory.
func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cmd := newRootCmd()
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	return runResult{stdout: out.String(), stderr: errb.String(), err: err}
}

func writeNix(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAssistsCommand(t *testing.T) {
	path := writeNix(t, t.TempDir(), "a.nix", "rec { a = 1; }\n")
	res := run(t, "", "assists", path, "--at", "1:2")
	if res.err != nil {
		t.Fatalf("assists: %v\n%s", res.err, res.stderr)
	}
	want := "1. [quickfix] Remove unused rec (remove_unused_rec)\n" +
		"   delete 1:1-1:5 \"rec \"\n"
	if res.stdout != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", res.stdout, want)
	}
}

func TestAssistsCommandCursorForms(t *testing.T) {
	path := writeNix(t, t.TempDir(), "a.nix", "rec { a = 1; }\n")
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{"offset", []string{"--offset", "0"}, "remove_unused_rec", ""},
		{"selection", []string{"--offset", "0", "--end-offset", "3"}, "remove_unused_rec", ""},
		{"outside set", []string{"--offset", "100"}, "no assists", ""},
		{"inside set", []string{"--at", "1:11"}, "remove_unused_rec", ""},
		{"missing cursor", nil, "", "one of --at or --offset"},
		{"bad position", []string{"--at", "1"}, "", "want LINE:COL"},
		{"line out of range", []string{"--at", "9:1"}, "", "line out of range"},
		{"reversed", []string{"--offset", "5", "--end-offset", "1"}, "", "before start"},
		{"both forms", []string{"--at", "1:1", "--offset", "0"}, "", "none of the others"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", append([]string{"assists", path}, tt.args...)...)
			if tt.wantErr != "" {
				if res.err == nil || !strings.Contains(res.err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", res.err, tt.wantErr)
				}
				return
			}
			if res.err != nil {
				t.Fatal(res.err)
			}
			if !strings.Contains(res.stdout, tt.want) {
				t.Fatalf("stdout = %q, want %q", res.stdout, tt.want)
			}
		})
	}
}

func TestAssistsCommandJSON(t *testing.T) {
	res := run(t, "let x = 1; in 2", "assists", "-", "--at", "1:5", "--format", "json")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var out diagfmt.AssistsOutput
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("%v\n%s", err, res.stdout)
	}
	if out.Count != 1 || out.Assists[0].ID != "remove_unused_binding" {
		t.Fatalf("assists = %+v", out)
	}
	if loc := out.Assists[0].Edits[0].Location; loc.File != "<stdin>" || loc.StartLine != 1 {
		t.Fatalf("edit location = %+v", loc)
	}
}

func TestAssistsCommandRespectsConfig(t *testing.T) {
	dir := t.TempDir()
	writeNix(t, dir, "nixkit.toml", "[assists]\ndisabled = [\"remove_unused_rec\"]\n")
	path := writeNix(t, dir, "sub/a.nix", "rec { a = 1; }")
	res := run(t, "", "assists", path, "--offset", "0")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.stdout != "no assists\n" {
		t.Fatalf("stdout = %q", res.stdout)
	}

	bad := writeNix(t, t.TempDir(), "bad.toml", "[trace]\nlevel = \"loud\"\n")
	if res := run(t, "", "--config", bad, "assists", path, "--offset", "0"); res.err == nil {
		t.Fatal("invalid config accepted")
	}
}

func TestFixCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeNix(t, dir, "a.nix", "rec { a = 1; }\n")

	dry := run(t, "", "fix", path, "--at", "1:1", "--dry-run")
	if dry.err != nil {
		t.Fatal(dry.err)
	}
	if !strings.Contains(dry.stdout, "-rec { a = 1; }\n+{ a = 1; }\n") {
		t.Fatalf("diff:\n%s", dry.stdout)
	}
	if got, _ := os.ReadFile(path); string(got) != "rec { a = 1; }\n" {
		t.Fatalf("dry run wrote %q", got)
	}

	res := run(t, "", "fix", path, "--at", "1:1")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.HasPrefix(res.stdout, "applied Remove unused rec [remove_unused_rec]") {
		t.Fatalf("stdout = %q", res.stdout)
	}
	if got, _ := os.ReadFile(path); string(got) != "{ a = 1; }\n" {
		t.Fatalf("file = %q", got)
	}

	again := run(t, "", "fix", path, "--at", "1:1")
	if again.err == nil || !strings.Contains(again.err.Error(), "no applicable assists") {
		t.Fatalf("second fix err = %v", again.err)
	}
}

func TestFixCommandStdinAndID(t *testing.T) {
	const text = "let x = 1; in with y; 2"
	res := run(t, text, "fix", "-", "--at", "1:15", "--id", "remove_unused_with")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.stdout != "let x = 1; in 2" {
		t.Fatalf("stdout = %q", res.stdout)
	}

	res = run(t, text, "fix", "-", "--at", "1:15", "--id", "nope")
	if res.err == nil || !strings.Contains(res.err.Error(), "assist id not found") {
		t.Fatalf("err = %v", res.err)
	}
}

func TestDiagCommand(t *testing.T) {
	path := writeNix(t, t.TempDir(), "a.nix", "let x = 1; in rec { }")
	res := run(t, "", "diag", path, "--format", "yaml")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := yaml.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("%v\n%s", err, res.stdout)
	}
	var codes []string
	for _, d := range out.Diagnostics {
		codes = append(codes, d.Code)
	}
	if strings.Join(codes, ",") != "LIVE3001,LIVE3002" {
		t.Fatalf("codes = %v", codes)
	}

	broken := run(t, "let x = ; in x", "diag", "-")
	if !errors.Is(broken.err, errReported) {
		t.Fatalf("err = %v, want errReported", broken.err)
	}
	if !strings.Contains(broken.stdout, "<stdin>:1:") || !strings.Contains(broken.stdout, ": ERROR SYN") {
		t.Fatalf("stdout:\n%s", broken.stdout)
	}
}

func TestDiagShortAndMinSeverity(t *testing.T) {
	text := "a: let x = 1; in rec { }"
	all := run(t, text, "diag", "-", "--format", "short")
	if all.err != nil {
		t.Fatal(all.err)
	}
	want := "<stdin>:1:1: INFO LIVE3004: unused parameter `a`\n" +
		"<stdin>:1:8: WARNING LIVE3001: unused binding `x`\n" +
		"<stdin>:1:18: WARNING LIVE3002: this `rec` is unused\n"
	if all.stdout != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", all.stdout, want)
	}

	warn := run(t, text, "diag", "-", "--format", "short", "--min-severity", "warning")
	if warn.err != nil {
		t.Fatal(warn.err)
	}
	if strings.Contains(warn.stdout, "LIVE3004") || strings.Count(warn.stdout, "\n") != 2 {
		t.Fatalf("stdout:\n%s", warn.stdout)
	}
	if !strings.Contains(warn.stderr, "1 diagnostic(s) below WARNING hidden") {
		t.Fatalf("stderr = %q", warn.stderr)
	}

	dir := t.TempDir()
	path := writeNix(t, dir, "a.nix", text)
	writeNix(t, dir, "nixkit.toml", "[diagnostics]\nmin_severity = \"error\"\n")
	quiet := run(t, "", "diag", path, "--format", "short")
	if quiet.err != nil || quiet.stdout != "" {
		t.Fatalf("err = %v, stdout:\n%s", quiet.err, quiet.stdout)
	}

	bad := run(t, text, "diag", "-", "--min-severity", "loud")
	if bad.err == nil || !strings.Contains(bad.err.Error(), "invalid severity") {
		t.Fatalf("err = %v", bad.err)
	}
}

func TestTokenizeAndParseCommands(t *testing.T) {
	res := run(t, "rec { }", "tokenize", "-", "--format", "json")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(res.stdout), &toks); err != nil {
		t.Fatalf("%v\n%s", err, res.stdout)
	}
	if len(toks) == 0 || toks[0].Text != "rec" {
		t.Fatalf("tokens = %+v", toks)
	}

	parsed := run(t, "rec { }", "parse", "-")
	if parsed.err != nil {
		t.Fatal(parsed.err)
	}
	if !strings.HasPrefix(parsed.stdout, "Root@0..7\n") || !strings.Contains(parsed.stdout, `"rec"`) {
		t.Fatalf("tree:\n%s", parsed.stdout)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeNix(t, dir, "a.nix", "let x = 1; in rec { y = 2; }")
	writeNix(t, dir, "b.nix", "with builtins; 1")
	writeNix(t, dir, "c.nix", "1")

	res := run(t, "", "--path-mode", "basename", "check", dir, "--jobs", "2")
	if res.err != nil {
		t.Fatalf("%v\n%s", res.err, res.stderr)
	}
	want := "a.nix:1:5: [remove_unused_binding] Remove unused binding `x`\n" +
		"a.nix:1:15: [remove_unused_rec] Remove unused rec\n" +
		"b.nix:1:1: [remove_unused_with] Remove unused with\n"
	if res.stdout != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", res.stdout, want)
	}
	if !strings.Contains(res.stderr, "3 assist(s) offered in 3 file(s)") {
		t.Fatalf("stderr = %q", res.stderr)
	}

	quiet := run(t, "", "--quiet", "check", dir, "--format", "json")
	if quiet.err != nil {
		t.Fatal(quiet.err)
	}
	if quiet.stderr != "" {
		t.Fatalf("quiet stderr = %q", quiet.stderr)
	}
	var out checkOutput
	if err := json.Unmarshal([]byte(quiet.stdout), &out); err != nil {
		t.Fatal(err)
	}
	if out.Offered != 3 || len(out.Files) != 3 || out.Files[0].Diagnostics != 2 {
		t.Fatalf("check output = %+v", out)
	}
}

func TestCheckCommandProgressUI(t *testing.T) {
	dir := t.TempDir()
	writeNix(t, dir, "a.nix", "rec { y = 2; }")

	res := run(t, "", "--path-mode", "basename", "check", dir, "--ui", "on")
	if res.err != nil {
		t.Fatalf("%v\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "check "+dir) {
		t.Errorf("stdout lacks the progress header:\n%q", res.stdout)
	}
	if !strings.HasSuffix(res.stdout, "a.nix:1:1: [remove_unused_rec] Remove unused rec\n") {
		t.Errorf("stdout lacks the offer list:\n%q", res.stdout)
	}

	bad := run(t, "", "check", dir, "--ui", "maybe")
	if bad.err == nil || !strings.Contains(bad.err.Error(), "expected auto|on|off") {
		t.Fatalf("err = %v", bad.err)
	}
}

func TestCheckCommandLoadErrorDumpsTrace(t *testing.T) {
	dir := t.TempDir()
	writeNix(t, dir, "a.nix", "1")
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "b.nix")); err != nil {
		t.Fatal(err)
	}
	res := run(t, "", "--trace-level", "detail", "--trace", filepath.Join(t.TempDir(), "t.log"), "--trace-ring", "64", "check", dir)
	if !errors.Is(res.err, errReported) {
		t.Fatalf("err = %v", res.err)
	}
	if !strings.Contains(res.stderr, "b.nix: ERROR IO4001") {
		t.Fatalf("stderr:\n%s", res.stderr)
	}
	if !strings.Contains(res.stderr, "trace tail (1 file(s) failed to load)") || !strings.Contains(res.stderr, "load-error") {
		t.Fatalf("stderr lacks the trace tail:\n%s", res.stderr)
	}
}

func TestTimingsAndTrace(t *testing.T) {
	res := run(t, "rec { a = 1; }", "--timings", "--trace", "-", "--trace-level", "debug", "assists", "-", "--offset", "0")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"timings:", "lex+parse", "liveness", "assists", "assist:remove_unused_rec"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, res.stderr)
		}
	}
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	cpu, mem := filepath.Join(dir, "cpu.pprof"), filepath.Join(dir, "mem.pprof")
	res := run(t, "1", "--cpu-profile", cpu, "--mem-profile", mem, "diag", "-")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, p := range []string{cpu, mem} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", filepath.Base(p), err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	res := run(t, "", "version", "--format", "json")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" || info["platform"] == "" {
		t.Fatalf("info = %v", info)
	}
	pretty := run(t, "", "version")
	if !strings.HasPrefix(pretty.stdout, "nixkit ") {
		t.Fatalf("stdout = %q", pretty.stdout)
	}
}

func TestAutoSwitch(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{" OFF ", false, false},
		{"auto", false, false}, // буфер не терминал
		{"", false, false},
		{"sometimes", false, true},
	}
	for _, tt := range tests {
		got, err := autoSwitch("ui", tt.value, &buf)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("autoSwitch(%q) = %v, %v", tt.value, got, err)
		}
	}
}

func TestCacheCommand(t *testing.T) {
	cacheHome := t.TempDir()
	exec := func(args ...string) string {
		t.Helper()
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out.String())
		}
		return out.String()
	}

	dir := filepath.Join(cacheHome, "nixkit")
	if got := exec("cache", "dir"); got != dir+"\n" {
		t.Fatalf("cache dir = %q, want %q", got, dir)
	}
	path := writeNix(t, t.TempDir(), "a.nix", "rec { a = 1; }\n")
	exec("diag", path)
	if entries, _ := os.ReadDir(dir); len(entries) == 0 {
		t.Fatal("diag did not populate the cache")
	}
	if got := exec("cache", "clear"); got != "cleared "+dir+"\n" {
		t.Fatalf("cache clear = %q", got)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("cache not empty after clear: %v", entries)
	}
}

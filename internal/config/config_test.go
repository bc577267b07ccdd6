package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nixkit/internal/diag"
	"nixkit/internal/trace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
[assists]
disabled = ["remove_empty_let_in"]

[diagnostics]
max = 7
`)
	nested := filepath.Join(root, "pkgs", "tools")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != filepath.Join(root, FileName) {
		t.Fatalf("path = %q", cfg.Path)
	}
	if cfg.Diagnostics.Max != 7 {
		t.Errorf("max = %d, want 7", cfg.Diagnostics.Max)
	}
	if !cfg.Diagnostics.UnusedBindings {
		t.Error("unused_bindings default lost")
	}
	if cfg.AssistEnabled("remove_empty_let_in") || !cfg.AssistEnabled("remove_unused_rec") {
		t.Errorf("disabled = %v", cfg.Assists.Disabled)
	}
	if cfg.TraceLevel() != trace.LevelOff {
		t.Errorf("trace level = %v", cfg.TraceLevel())
	}
	if cfg.SeverityFloor() != diag.SevInfo {
		t.Errorf("severity floor = %v", cfg.SeverityFloor())
	}
}

func TestFindFromFilePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	file := filepath.Join(root, "default.nix")
	writeFile(t, file, "1")

	got, err := Find(file)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, FileName) {
		t.Fatalf("Find = %q", got)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	// t.TempDir лежит в /tmp, выше которого nixkit.toml не ожидается
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Diagnostics.Max != 100 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad level", "[trace]\nlevel = \"loud\"\n", ErrBadTraceLevel},
		{"negative max", "[diagnostics]\nmax = -1\n", ErrBadMax},
		{"bad severity", "[diagnostics]\nmin_severity = \"loud\"\n", ErrBadSeverity},
		{"unknown assist", "[assists]\ndisabled = [\"remove_unused_rec\", \"remove_everything\"]\n", ErrUnknownAssist},
		{"unknown key", "[assists]\nenabled = []\n", nil},
		{"syntax", "[assists\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsFieldErrors(t *testing.T) {
	cfg := Default()
	cfg.Diagnostics.Max = -3
	cfg.Trace.Level = "verbose"
	err := cfg.Validate()
	for _, want := range []error{ErrBadMax, ErrBadTraceLevel} {
		if !errors.Is(err, want) {
			t.Errorf("err = %v, want it to wrap %v", err, want)
		}
	}
	if errors.Is(err, ErrUnknownAssist) {
		t.Errorf("err = %v, no assist is listed", err)
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestTraceLevelFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[trace]\nlevel = \"debug\"\n\n[diagnostics]\nmin_severity = \"warning\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TraceLevel() != trace.LevelDebug {
		t.Fatalf("level = %v", cfg.TraceLevel())
	}
	if cfg.SeverityFloor() != diag.SevWarning {
		t.Fatalf("severity floor = %v", cfg.SeverityFloor())
	}
}

package version

import (
	"strings"
	"testing"
)

func TestPretty(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "1.2.3"}, "nixkit 1.2.3"},
		{"commit", Info{Version: "1.2.3", GitCommit: "abc123def456"}, "nixkit 1.2.3 (abc123d)"},
		{"date", Info{Version: "1.2.3", BuildDate: "2026-01-15"}, "nixkit 1.2.3 (2026-01-15)"},
		{"both", Info{Version: "1.2.3", GitCommit: "abc", BuildDate: "2026-01-15"}, "nixkit 1.2.3 (abc, 2026-01-15)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Pretty(false); got != tt.want {
				t.Errorf("Pretty = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrettyColored(t *testing.T) {
	got := Info{Version: "1.2.3"}.Pretty(true)
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "1.2.3") {
		t.Fatalf("colored = %q", got)
	}
}

func TestCurrentReflectsOverrides(t *testing.T) {
	orig, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = orig, origCommit })

	Version, GitCommit = "9.9.9", "deadbeef"
	info := Current()
	if info.Version != "9.9.9" || info.GitCommit != "deadbeef" {
		t.Fatalf("info = %+v", info)
	}
	if info.GoVersion == "" || !strings.Contains(info.Platform, "/") {
		t.Fatalf("runtime fields = %+v", info)
	}
}

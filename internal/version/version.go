package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
)

// Overridable at build time via -ldflags "-X nixkit/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

// Info is the build description printed by `nixkit version`.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func Current() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Pretty renders "nixkit 0.1.0-dev (abc1234, 2026-01-01)"; only the version
// number is colored.
func (i Info) Pretty(colored bool) string {
	c := color.New(color.FgGreen, color.Bold)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	s := "nixkit " + c.Sprint(i.Version)
	switch {
	case i.GitCommit != "" && i.BuildDate != "":
		s += fmt.Sprintf(" (%s, %s)", shortCommit(i.GitCommit), i.BuildDate)
	case i.GitCommit != "":
		s += fmt.Sprintf(" (%s)", shortCommit(i.GitCommit))
	case i.BuildDate != "":
		s += fmt.Sprintf(" (%s)", i.BuildDate)
	}
	return s
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

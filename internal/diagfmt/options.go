package diagfmt

import (
	"fmt"
	"slices"
	"strings"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = []string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string { return nameOf(pathModeNames, int(m)) }

func ParsePathMode(s string) (PathMode, error) {
	i, err := parseName("path mode", pathModeNames, s)
	return PathMode(i), err // #nosec G115 -- index of a short table
}

// Format is the output shape of a command.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
	FormatYAML
)

var formatNames = []string{"pretty", "json", "yaml"}

func (f Format) String() string { return nameOf(formatNames, int(f)) }

func ParseFormat(s string) (Format, error) {
	i, err := parseName("format", formatNames, s)
	return Format(i), err // #nosec G115 -- index of a short table
}

// nameOf falls back to the first (default) name for unknown values.
func nameOf(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return names[0]
}

// parseName maps s to its index in names; "" means the first entry.
func parseName(what string, names []string, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if i := slices.Index(names, s); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("invalid %s %q (expected: %s)", what, s, strings.Join(names, "|"))
}

type PrettyOpts struct {
	Color       bool
	Context     int8 // строк контекста над строкой диагностики
	PathMode    PathMode
	ShowNotes   bool
	ShowPreview bool // assists: строки до и после правки
}

type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезает вывод, Bag не трогает
	IncludeNotes     bool
}

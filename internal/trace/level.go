package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level caps the finest Scope a tracer records.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // driver и проходы
	LevelDetail       // плюс файлы
	LevelDebug        // всё, вплоть до узлов
)

var levelNames = []string{"off", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames, name); i >= 0 {
		return Level(i), nil // #nosec G115 -- len(levelNames) < 256
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
}

// ShouldEmit reports whether events of scope pass the level filter.
// Scopes and levels line up one step apart: phase keeps driver and pass.
func (l Level) ShouldEmit(scope Scope) bool {
	return l != LevelOff && scope <= Scope(l)+1
}

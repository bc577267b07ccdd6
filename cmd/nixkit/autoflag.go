package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// autoSwitch resolves an auto|on|off flag such as --ui or --color for output
// w. auto turns the feature on only when w is a terminal.
func autoSwitch(flag, value string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		f, ok := w.(*os.File)
		return ok && isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

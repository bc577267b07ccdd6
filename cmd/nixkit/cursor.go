package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"nixkit/internal/source"
)

var errNoCursor = errors.New("one of --at or --offset is required")

func addCursorFlags(cmd *cobra.Command) {
	cmd.Flags().String("at", "", "cursor position LINE:COL (1-based, bytes)")
	cmd.Flags().Int("offset", -1, "cursor byte offset")
	cmd.Flags().String("end", "", "selection end LINE:COL; the cursor is the selection start")
	cmd.Flags().Int("end-offset", -1, "selection end byte offset")
	cmd.MarkFlagsMutuallyExclusive("at", "offset")
	cmd.MarkFlagsMutuallyExclusive("end", "end-offset")
}

// parseLineCol parses "LINE:COL".
func parseLineCol(s string) (source.LineCol, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return source.LineCol{}, fmt.Errorf("position %q: want LINE:COL", s)
	}
	line, err := strconv.ParseUint(lineStr, 10, 32)
	if err != nil || line == 0 {
		return source.LineCol{}, fmt.Errorf("position %q: bad line", s)
	}
	col, err := strconv.ParseUint(colStr, 10, 32)
	if err != nil || col == 0 {
		return source.LineCol{}, fmt.Errorf("position %q: bad column", s)
	}
	return source.LineCol{Line: uint32(line), Col: uint32(col)}, nil // #nosec G115 -- ParseUint bitSize 32
}

// positionFlag resolves a LINE:COL flag or its byte-offset twin; ok is false
// when neither is set. Offsets past the end are passed through: the engine
// answers them with no assists.
func positionFlag(cmd *cobra.Command, file *source.File, posName, offName string) (uint32, bool, error) {
	if pos, _ := cmd.Flags().GetString(posName); pos != "" { //nolint:errcheck
		lc, err := parseLineCol(pos)
		if err != nil {
			return 0, false, err
		}
		off, ok := file.Offset(lc)
		if !ok {
			return 0, false, fmt.Errorf("--%s %s: line out of range (file has %d lines)", posName, pos, file.LineCount())
		}
		return off, true, nil
	}
	off, err := cmd.Flags().GetInt(offName)
	if err != nil {
		return 0, false, err
	}
	if off < 0 {
		return 0, false, nil
	}
	u, err := safecast.Conv[uint32](off)
	if err != nil {
		return 0, false, fmt.Errorf("--%s %d: %w", offName, off, err)
	}
	return u, true, nil
}

// cursorRange returns the selection given by the cursor flags; without an
// end flag the range is empty.
func cursorRange(cmd *cobra.Command, file *source.File) (source.Span, error) {
	start, ok, err := positionFlag(cmd, file, "at", "offset")
	if err != nil {
		return source.Span{}, err
	}
	if !ok {
		return source.Span{}, errNoCursor
	}
	end, ok, err := positionFlag(cmd, file, "end", "end-offset")
	if err != nil {
		return source.Span{}, err
	}
	if !ok {
		end = start
	}
	if end < start {
		return source.Span{}, fmt.Errorf("selection end %d is before start %d", end, start)
	}
	return source.Span{File: file.ID, Start: start, End: end}, nil
}

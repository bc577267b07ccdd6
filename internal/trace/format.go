package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the on-disk shape of trace events.
type Format uint8

const (
	FormatAuto Format = iota // выбирается по расширению файла
	FormatText
	FormatNDJSON
)

var formatNames = [...]string{FormatAuto: "auto", FormatText: "text", FormatNDJSON: "ndjson"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat also accepts "json" as an alias of ndjson.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(s)
	switch name {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatNDJSON, nil
	}
	for f, n := range formatNames {
		if n == name {
			return Format(f), nil // #nosec G115 -- three formats
		}
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// formatter renders events; for text it tracks span depth so nested spans indent.
type formatter struct {
	format Format
	start  time.Time
	depth  map[uint64]int
}

func newFormatter(format Format) *formatter {
	if format == FormatAuto {
		format = FormatText
	}
	return &formatter{format: format, depth: make(map[uint64]int)}
}

func (f *formatter) render(ev *Event) []byte {
	if f.format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	if f.start.IsZero() {
		f.start = ev.Time
	}
	depth := 0
	if d, ok := f.depth[ev.ParentID]; ok && ev.ParentID != 0 {
		depth = d + 1
	}
	switch ev.Kind {
	case KindSpanBegin:
		f.depth[ev.SpanID] = depth
	case KindSpanEnd:
		if d, ok := f.depth[ev.SpanID]; ok {
			depth = d
			delete(f.depth, ev.SpanID)
		}
	}
	return formatText(ev, depth, ev.Time.Sub(f.start))
}

func formatNDJSON(ev *Event) []byte {
	type jsonEvent struct {
		Time     string            `json:"time"`
		RunID    string            `json:"run,omitempty"`
		Seq      uint64            `json:"seq"`
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		SpanID   uint64            `json:"span_id,omitempty"`
		ParentID uint64            `json:"parent_id,omitempty"`
		GID      uint64            `json:"gid,omitempty"`
		Name     string            `json:"name"`
		Detail   string            `json:"detail,omitempty"`
		Extra    map[string]string `json:"extra,omitempty"`
	}
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		RunID:    ev.RunID,
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindGlyphs = [...]string{KindSpanBegin: "→ ", KindSpanEnd: "← ", KindPoint: "• "}

// formatText renders "[  0.120ms]   → name (detail) {k=v}".
func formatText(ev *Event, depth int, elapsed time.Duration) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%8.3fms] %s", float64(elapsed.Microseconds())/1000, strings.Repeat("  ", depth))
	if int(ev.Kind) < len(kindGlyphs) {
		sb.WriteString(kindGlyphs[ev.Kind])
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(pairs, ", "))
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

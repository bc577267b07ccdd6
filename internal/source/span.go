package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the minimal span containing both s and other.
// Spans from different files are not merged: s is returned as is.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Intersect returns the common part of two spans.
// Spans that only touch at one offset intersect with an empty result,
// spans that are apart (or live in different files) do not intersect at all.
func (s Span) Intersect(other Span) (Span, bool) {
	if s.File != other.File {
		return Span{}, false
	}
	start := max(s.Start, other.Start)
	end := min(s.End, other.End)
	if start > end {
		return Span{}, false
	}
	return Span{File: s.File, Start: start, End: end}, true
}

// Contains reports whether other lies completely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// ContainsOffset reports whether off is inside s; End is inclusive so that a
// cursor placed right after the last byte still belongs to the span.
func (s Span) ContainsOffset(off uint32) bool {
	return s.Start <= off && off <= s.End
}

// At returns an empty span positioned at off.
func At(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

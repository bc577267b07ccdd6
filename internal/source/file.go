package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID is the index of a file revision inside its FileSet.
type FileID uint32

// FileFlags records how the content was obtained.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // из памяти: stdin, тесты
	FileHadBOM                               // BOM срезан при загрузке
	FileNormalizedCRLF                       // \r\n заменены на \n
)

func (f FileFlags) Has(flag FileFlags) bool { return f&flag == flag }

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Col) }

// File is one immutable revision of a document. Edits produce a new File
// with a new FileID, so the ID can key caches and snapshots.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	starts []uint32 // смещение начала каждой строки, starts[0] == 0
	crlf   []uint32 // \n в Content, которые на диске были \r\n
}

func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("%s: content too large: %w", f.Path, err))
	}
	return n
}

// Span covers the whole content.
func (f *File) Span() Span { return Span{File: f.ID, End: f.Size()} }

// LineCount counts lines the way editors do: text ending in a newline has an
// empty last line.
func (f *File) LineCount() int { return len(f.starts) }

// Text returns the bytes under span clipped to the content.
func (f *File) Text(span Span) string {
	size := f.Size()
	lo, hi := min(span.Start, size), min(span.End, size)
	if lo >= hi {
		return ""
	}
	return string(f.Content[lo:hi])
}

// Position maps a byte offset to a line and column. The newline byte belongs
// to the line it terminates.
func (f *File) Position(off uint32) LineCol {
	i, exact := slices.BinarySearch(f.starts, off)
	if !exact {
		i--
	}
	return LineCol{Line: uint32(i + 1), Col: off - f.starts[i] + 1} // #nosec G115 -- i < len(starts)
}

// lineBounds returns [start, end) of line n (1-based) without its newline.
func (f *File) lineBounds(n uint32) (start, end uint32, ok bool) {
	if n == 0 || int(n) > len(f.starts) {
		return 0, 0, false
	}
	start = f.starts[n-1]
	end = f.Size()
	if int(n) < len(f.starts) {
		end = f.starts[n] - 1
	}
	return start, end, true
}

// Offset is the inverse of Position. Columns past the line end are clamped to
// it; ok is false for lines the file does not have.
func (f *File) Offset(pos LineCol) (uint32, bool) {
	if pos.Col == 0 {
		return 0, false
	}
	start, end, ok := f.lineBounds(pos.Line)
	if !ok {
		return 0, false
	}
	off := start + pos.Col - 1
	if off < start || off > end {
		off = end
	}
	return off, true
}

// Raw rebuilds the bytes as they were on disk, before the BOM was cut and
// CRLF folded.
func (f *File) Raw() []byte {
	if !f.Flags.Has(FileHadBOM) && len(f.crlf) == 0 {
		return f.Content
	}
	out := make([]byte, 0, len(utf8BOM)+len(f.Content)+len(f.crlf))
	if f.Flags.Has(FileHadBOM) {
		out = append(out, utf8BOM...)
	}
	prev := uint32(0)
	for _, nl := range f.crlf {
		out = append(out, f.Content[prev:nl]...)
		out = append(out, '\r')
		prev = nl
	}
	return append(out, f.Content[prev:]...)
}

// RawSpan maps a span of Content onto the bytes returned by Raw.
func (f *File) RawSpan(sp Span) Span {
	sp.Start, sp.End = f.rawOffset(sp.Start), f.rawOffset(sp.End)
	return sp
}

func (f *File) rawOffset(off uint32) uint32 {
	// каждый \n до off потерял свой \r
	n, _ := slices.BinarySearch(f.crlf, off)
	raw := off + uint32(n) // #nosec G115 -- n <= len(crlf)
	if f.Flags.Has(FileHadBOM) {
		raw += uint32(len(utf8BOM))
	}
	return raw
}

// Line returns the text of line n (1-based) or "" when there is no such line.
func (f *File) Line(n uint32) string {
	start, end, ok := f.lineBounds(n)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// DisplayPath renders Path for output. Modes: absolute, relative (to baseDir
// or the working directory), basename, auto.
func (f *File) DisplayPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		return filepath.ToSlash(abs)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd() //nolint:errcheck
		}
		rel, err := RelativePath(f.Path, baseDir)
		if err != nil {
			return f.Path
		}
		return rel
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути только шумят
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a leading BOM and turns every \r\n into \n. Lone \r bytes
// are left alone. crlf lists the offsets (in the result) of every \n that
// was a \r\n, so the raw text can be rebuilt.
func normalize(raw []byte) (content []byte, flags FileFlags, crlf []uint32) {
	if rest, ok := bytes.CutPrefix(raw, utf8BOM); ok {
		raw = rest
		flags |= FileHadBOM
	}
	if !bytes.Contains(raw, []byte("\r\n")) {
		return raw, flags, nil
	}
	flags |= FileNormalizedCRLF
	content = make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
			crlf = append(crlf, uint32(len(content))) // #nosec G115 -- Size() guards the content length
			continue
		}
		content = append(content, raw[i])
	}
	return content, flags, crlf
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, bytes.Count(content, []byte("\n"))+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) // #nosec G115 -- Size() guards the content length
		}
	}
	return starts
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// RelativePath makes path relative to baseDir with forward slashes. A path
// outside baseDir is returned absolute rather than as a ../ chain.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs), nil
	}
	return filepath.ToSlash(rel), nil
}

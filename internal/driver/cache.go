package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"nixkit/internal/diag"
	"nixkit/internal/source"
)

// Текущая версия схемы; увеличивать при изменении CachePayload или правил liveness.
const cacheSchemaVersion uint16 = 1

type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache keeps liveness findings on disk keyed by file content, so an
// unchanged file skips the scope walk on the next run. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedDiagnostic struct {
	Code     uint16 `msgpack:"code"`
	Severity uint8  `msgpack:"sev"`
	Start    uint32 `msgpack:"start"`
	End      uint32 `msgpack:"end"`
	Message  string `msgpack:"msg"`
}

// CachePayload is the on-disk record. Spans are stored without a FileID and
// rebound to the file that hit the cache.
type CachePayload struct {
	Schema uint16             `msgpack:"schema"`
	Path   string             `msgpack:"path"`
	Found  []cachedDiagnostic `msgpack:"found"`
}

func NewCachePayload(path string, found []diag.Diagnostic) *CachePayload {
	p := &CachePayload{
		Schema: cacheSchemaVersion,
		Path:   path,
		Found:  make([]cachedDiagnostic, len(found)),
	}
	for i, d := range found {
		p.Found[i] = cachedDiagnostic{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		}
	}
	return p
}

// Diagnostics rebinds the payload to file; false for a payload of another schema.
func (p *CachePayload) Diagnostics(file source.FileID) ([]diag.Diagnostic, bool) {
	if p == nil || p.Schema != cacheSchemaVersion {
		return nil, false
	}
	out := make([]diag.Diagnostic, len(p.Found))
	for i, c := range p.Found {
		out[i] = diag.New(diag.Severity(c.Severity), diag.Code(c.Code),
			source.Span{File: file, Start: c.Start, End: c.End}, c.Message)
	}
	return out, true
}

// CacheKey = H(schema || content hash || options).
func CacheKey(content [32]byte, skipUnusedBindings bool) Digest {
	h := sha256.New()
	var hdr [3]byte
	binary.LittleEndian.PutUint16(hdr[:2], cacheSchemaVersion)
	if skipUnusedBindings {
		hdr[2] = 1
	}
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "live", key.String()+".mp.zst")
}

// Put writes a zstd-compressed msgpack payload atomically (temp file + rename).
// A nil cache is a no-op.
func (c *DiskCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(payload); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key; (false, nil) on a miss.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return false, err
	}
	defer zr.Close()
	if err := msgpack.NewDecoder(zr).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

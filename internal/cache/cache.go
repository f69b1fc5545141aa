package cache

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"

	"course_find/internal/extract"
)

// DefaultMaxTextBytes is the per-file text cap used when MaxTextBytes is 0.
const DefaultMaxTextBytes = 8 * 1024 * 1024

type Extractor func(ctx context.Context, path string) ([]extract.Page, error)

// Cache stores extracted pages on disk, one gzip entry per source file.
// An entry is valid while the source keeps the same size and mtime.
type Cache struct {
	Root string
	// MaxTextBytes caps the total text kept per file.
	MaxTextBytes int64
}

func (c *Cache) effectiveMaxTextBytes() int64 {
	if c.MaxTextBytes > 0 {
		return c.MaxTextBytes
	}
	return DefaultMaxTextBytes
}

func truncateUTF8ToBytes(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	// Move left to a valid rune boundary (at most 3 bytes).
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// CapPages trims page text so the total stays within maxBytes. Pages past
// the cap keep their number with empty text.
func CapPages(pages []extract.Page, maxBytes int64) []extract.Page {
	out := make([]extract.Page, len(pages))
	remaining := maxBytes
	for i, p := range pages {
		if int64(len(p.Text)) > remaining {
			p.Text = truncateUTF8ToBytes(p.Text, int(remaining))
		}
		remaining -= int64(len(p.Text))
		out[i] = p
	}
	return out
}

func (c *Cache) cachePath(absPath string) string {
	h := sha1.Sum([]byte(absPath))
	hexsum := hex.EncodeToString(h[:])
	// shard by first 2 chars
	return filepath.Join(c.Root, hexsum[:2], hexsum+".bin")
}

// GetOrExtract returns the cached pages of absPath, or runs extractor and
// stores its output. Cache write failures are ignored.
func (c *Cache) GetOrExtract(ctx context.Context, absPath string, extractor Extractor) ([]extract.Page, error) {
	if extractor == nil {
		return nil, errors.New("extractor is nil")
	}
	st, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !st.Mode().IsRegular() {
		return nil, errors.New("not a regular file")
	}

	cp := c.cachePath(absPath)
	if pages, ok := c.tryRead(cp, st.Size(), st.ModTime()); ok {
		return pages, nil
	}

	pages, err := extractor(ctx, absPath)
	if err != nil {
		return nil, err
	}
	pages = CapPages(pages, c.effectiveMaxTextBytes())
	_ = c.write(cp, st.Size(), st.ModTime(), pages)
	return pages, nil
}

func (c *Cache) tryRead(path string, size int64, mtime time.Time) ([]extract.Page, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	hdr := make([]byte, 16)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return nil, false
	}
	cachedM := int64(binary.LittleEndian.Uint64(hdr[0:8]))
	cachedS := int64(binary.LittleEndian.Uint64(hdr[8:16]))
	if cachedS != size || cachedM != mtime.UnixNano() {
		return nil, false
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	var pages []extract.Page
	if err := json.NewDecoder(zr).Decode(&pages); err != nil {
		return nil, false
	}
	return CapPages(pages, c.effectiveMaxTextBytes()), true
}

func (c *Cache) write(path string, size int64, mtime time.Time, pages []extract.Page) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}()

	hdr := make([]byte, 16)
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(mtime.UnixNano()))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(size))
	if _, err := f.Write(hdr); err != nil {
		return err
	}

	zw := gzip.NewWriter(f)
	err = json.NewEncoder(zw).Encode(pages)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

package extract

import (
	"context"
	"io"
	"os"
	"strings"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textFilePages reads a plain text file; form feeds separate pages.
func textFilePages(ctx context.Context, path string, opts Options) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := readAllLimit(f, opts.maxFileBytes())
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	text, err := decodeTextBytes(b)
	if err != nil {
		return nil, err
	}
	return splitFormFeeds(text), nil
}

// readAllLimit reads r fully, failing with ErrTooLarge past limit bytes.
func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrTooLarge
	}
	return b, nil
}

// decodeTextBytes honours UTF-8 and UTF-16 LE/BE BOMs and otherwise assumes
// UTF-8; invalid sequences become U+FFFD.
func decodeTextBytes(b []byte) (string, error) {
	dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitFormFeeds(text string) []Page {
	parts := strings.Split(text, "\f")
	pages := make([]Page, 0, len(parts))
	for i, p := range parts {
		pages = append(pages, Page{Number: i + 1, Text: p})
	}
	return pages
}

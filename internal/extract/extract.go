// Package extract turns course documents into numbered pages of plain text.
package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupported = errors.New("不支持的文件格式")
	ErrTooLarge    = errors.New("文件过大，超过读取上限")
)

// Page is the plain text of one page, slide or form-feed separated block.
// Number starts at 1.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type Options struct {
	// MaxFileBytes caps the size of a file we are willing to parse.
	MaxFileBytes int64
}

func (o Options) maxFileBytes() int64 {
	if o.MaxFileBytes > 0 {
		return o.MaxFileBytes
	}
	return 20 * 1024 * 1024
}

var supportedExt = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".log":  {},
	".csv":  {},
	".pdf":  {},
	".pptx": {},
	".docx": {},
}

// Supported reports whether FilePages can read path.
func Supported(path string) bool {
	_, ok := supportedExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// FilePages extracts the pages of path in document order.
func FilePages(ctx context.Context, path string, opts Options) ([]Page, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".log", ".csv":
		return textFilePages(ctx, path, opts)
	case ".pdf":
		return pdfPages(ctx, path, opts)
	case ".pptx":
		return pptxPages(ctx, path)
	case ".docx":
		return docxPages(ctx, path)
	default:
		return nil, ErrUnsupported
	}
}

// Lines returns the non-blank lines of the page, trimmed.
func (p Page) Lines() []string {
	raw := strings.Split(p.Text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

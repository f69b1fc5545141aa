package extract

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
)

func pdfPageWorkers() int {
	// 并行解析 PDF 页的 worker 数。默认关闭（=1），部分 PDF 并行解析时 CPU/内存会暴涨。
	const def = 1
	v := strings.TrimSpace(os.Getenv("CFIND_PDF_PAGE_WORKERS"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// pdfMaxFileBytes: 显式的 Options.MaxFileBytes 优先，其次 CFIND_PDF_MAX_FILE_BYTES。
func pdfMaxFileBytes(opts Options) int64 {
	if opts.MaxFileBytes > 0 {
		return opts.MaxFileBytes
	}
	if v := strings.TrimSpace(os.Getenv("CFIND_PDF_MAX_FILE_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return opts.maxFileBytes()
}

func pdfOpen(path string, maxBytes int64) (*os.File, *pdf.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	// 纯 Go PDF 解析在大文件上可能产生巨量内存/CPU。
	if fi.Size() > maxBytes {
		_ = f.Close()
		return nil, nil, ErrTooLarge
	}
	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, r, nil
}

// pdfPages returns one Page per PDF page. Pages whose text cannot be decoded
// are kept with empty text so numbering stays aligned with the document.
func pdfPages(ctx context.Context, path string, opts Options) ([]Page, error) {
	f, r, err := pdfOpen(path, pdfMaxFileBytes(opts))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	workers := pdfPageWorkers()
	if workers <= 1 || r.NumPage() <= 1 {
		return pdfPagesSequential(ctx, r)
	}
	return pdfPagesParallel(ctx, r, workers)
}

func pdfPagesSequential(ctx context.Context, r *pdf.Reader) ([]Page, error) {
	n := r.NumPage()
	pages := make([]Page, 0, n)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= n; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		pages = append(pages, Page{Number: i, Text: pdfPageText(r.Page(i), fonts)})
	}
	return pages, nil
}

func pdfPagesParallel(ctx context.Context, r *pdf.Reader, workers int) ([]Page, error) {
	n := r.NumPage()
	pages := make([]Page, n)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, workers*2)
	go func() {
		defer close(jobs)
		for i := 1; i <= n; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			// Per-worker font cache; avoids cross-goroutine map races.
			fonts := make(map[string]*pdf.Font)
			for num := range jobs {
				if ctx.Err() != nil {
					return
				}
				// each worker owns distinct indices
				pages[num-1] = Page{Number: num, Text: pdfPageText(r.Page(num), fonts)}
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return pages, nil
}

func pdfPageText(p pdf.Page, fonts map[string]*pdf.Font) string {
	if p.V.IsNull() {
		return ""
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; ok {
			continue
		}
		f := p.Font(name)
		fonts[name] = &f
	}
	text, err := p.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return text
}

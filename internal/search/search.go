// Package search walks course directories, extracts page text with a worker
// pool and runs the context search over the resulting sections.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"course_find/internal/cache"
	"course_find/internal/extract"
	"course_find/internal/log"
	"course_find/internal/textsearch"
)

const (
	GranularityPage = "page"
	GranularityLine = "line"
)

var logger = log.ForService("search")

type Config struct {
	Roots   []string
	Query   string
	Workers int
	// ContextLen 表示命中前后各保留多少个词
	ContextLen  int
	Granularity string
	Folding     textsearch.Folding
	Highlight   bool
	// CacheDir 为空时不使用文本缓存
	CacheDir     string
	BookURL      string
	MaxFileBytes int64
	// MaxTextBytes caps extracted text per file, cached or not. 0 means
	// cache.DefaultMaxTextBytes.
	MaxTextBytes int64
}

func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 4
}

func (c Config) options() textsearch.Options {
	opts := textsearch.Options{ContextLength: c.ContextLen, Folding: c.Folding}
	if c.Highlight {
		hl := textsearch.DefaultHighlight
		opts.Highlight = &hl
	}
	return opts
}

type Progress struct {
	FilesScanned uint64
	FilesFailed  uint64
}

// ProgressFn may be called concurrently from several workers.
type ProgressFn func(Progress)

// document is one supported file found under a root.
type document struct {
	abs  string
	name string // slash-separated, relative to its root
}

// Run extracts every supported document under cfg.Roots and searches it for
// cfg.Query. Files that fail to extract are logged and skipped.
func Run(ctx context.Context, cfg Config, onProgress ProgressFn) (*textsearch.Result, error) {
	if strings.TrimSpace(cfg.Query) == "" {
		// 空查询不做任何提取
		return textsearch.Search(nil, "", cfg.options())
	}
	sections, err := Sections(ctx, cfg, onProgress)
	if err != nil {
		return nil, err
	}
	res, err := textsearch.Search(sections, cfg.Query, cfg.options())
	if err != nil {
		return nil, err
	}
	logger.Infof("query %q: %d sections, %d matching pages", cfg.Query, len(sections), res.Len())
	return res, nil
}

// Sections returns the searchable sections of every document under
// cfg.Roots, ordered by root, then path, then page.
func Sections(ctx context.Context, cfg Config, onProgress ProgressFn) ([]textsearch.Section, error) {
	if len(cfg.Roots) == 0 {
		return nil, errors.New("roots 为空")
	}
	switch cfg.Granularity {
	case "", GranularityPage, GranularityLine:
	default:
		return nil, fmt.Errorf("未知的 granularity: %q", cfg.Granularity)
	}

	docs, err := walkRoots(ctx, cfg.Roots)
	if err != nil {
		return nil, err
	}
	pages := extractAll(ctx, cfg, docs, onProgress)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	tpl := cfg.BookURL
	if tpl == "" {
		tpl = "file://{path}#page={page}"
	}
	sections := make([]textsearch.Section, 0, len(docs)*8)
	for i, d := range docs {
		for _, p := range pages[i] {
			link := bookURL(tpl, d, p.Number)
			for _, content := range SplitSections(p, cfg.Granularity) {
				sections = append(sections, textsearch.Section{Content: content, Filename: d.name, Page: p.Number, BookURL: link})
			}
		}
	}
	return sections, nil
}

// SplitSections returns the searchable texts of one page: the whole page for
// GranularityPage (or ""), one entry per non-blank line for GranularityLine.
func SplitSections(p extract.Page, granularity string) []string {
	if granularity == GranularityLine {
		return p.Lines()
	}
	return []string{p.Text}
}

// walkRoots lists supported documents under roots. Names are relative to
// their root; with several roots they are prefixed by the root's base name,
// and a name that still collides falls back to the absolute path.
func walkRoots(ctx context.Context, roots []string) ([]document, error) {
	docs := make([]document, 0, 256)
	seen := make(map[string]struct{})
	names := make(map[string]struct{})

	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		if root = strings.TrimSpace(root); root == "" {
			continue
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(absRoots, absRoot) {
			absRoots = append(absRoots, absRoot)
		}
	}
	prefix := len(absRoots) > 1

	for _, absRoot := range absRoots {
		// WalkDir 按字典序遍历，保证结果顺序稳定
		err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warnf("skip %s: %v", path, err)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !extract.Supported(path) {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			name := filepath.Base(path)
			if rel, err := filepath.Rel(absRoot, path); err == nil && rel != "." {
				name = filepath.ToSlash(rel)
				if prefix {
					name = filepath.Base(absRoot) + "/" + name
				}
			}
			if _, taken := names[name]; taken {
				name = filepath.ToSlash(path)
			}
			names[name] = struct{}{}
			docs = append(docs, document{abs: path, name: name})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// extractAll returns pages[i] for docs[i]; failed documents get nil.
func extractAll(ctx context.Context, cfg Config, docs []document, onProgress ProgressFn) [][]extract.Page {
	workers := cfg.WorkerCount()
	out := make([][]extract.Page, len(docs))
	opts := extract.Options{MaxFileBytes: cfg.MaxFileBytes}
	maxText := cfg.MaxTextBytes
	if maxText <= 0 {
		maxText = cache.DefaultMaxTextBytes
	}

	var c *cache.Cache
	if cfg.CacheDir != "" {
		c = &cache.Cache{Root: cfg.CacheDir, MaxTextBytes: maxText}
	}
	// 缓存与否都按同一上限截断，结果一致
	extractor := func(ctx context.Context, path string) ([]extract.Page, error) {
		pages, err := extract.FilePages(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return cache.CapPages(pages, maxText), nil
	}

	var scanned, failed uint64
	jobs := make(chan int, workers*4)

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				d := docs[idx]
				var (
					pages []extract.Page
					err   error
				)
				if c != nil {
					pages, err = c.GetOrExtract(ctx, d.abs, extractor)
				} else {
					pages, err = extractor(ctx, d.abs)
				}
				atomic.AddUint64(&scanned, 1)
				if err != nil {
					atomic.AddUint64(&failed, 1)
					if ctx.Err() == nil {
						logger.Warnf("extract %s: %v", d.abs, err)
					}
				} else {
					// each worker writes distinct indices
					out[idx] = pages
					logger.Debugf("extract %s: %d pages", d.name, len(pages))
				}
				if onProgress != nil {
					onProgress(Progress{FilesScanned: atomic.LoadUint64(&scanned), FilesFailed: atomic.LoadUint64(&failed)})
				}
			}
		}()
	}

	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func bookURL(tpl string, d document, page int) string {
	path := (&url.URL{Path: filepath.ToSlash(d.abs)}).EscapedPath()
	name := (&url.URL{Path: d.name}).EscapedPath()
	return strings.NewReplacer(
		"{path}", path,
		"{filename}", name,
		"{page}", strconv.Itoa(page),
	).Replace(tpl)
}

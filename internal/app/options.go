package app

import (
	"io"
	"os"
	"strings"

	"course_find/internal/search"
	"course_find/internal/textsearch"
)

type CLIOptions struct {
	Roots        string
	Query        string
	Workers      int
	ContextLen   int
	Granularity  string
	Folding      textsearch.Folding
	Highlight    bool
	CacheDir     string
	BookURL      string
	MaxFileBytes int64

	// Out 默认为 os.Stdout
	Out io.Writer
}

func (o CLIOptions) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

func (o CLIOptions) searchConfig() search.Config {
	return search.Config{
		Roots:        parseRoots(o.Roots),
		Query:        o.Query,
		Workers:      o.Workers,
		ContextLen:   o.ContextLen,
		Granularity:  o.Granularity,
		Folding:      o.Folding,
		Highlight:    o.Highlight,
		CacheDir:     o.CacheDir,
		BookURL:      o.BookURL,
		MaxFileBytes: o.MaxFileBytes,
	}
}

func parseRoots(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

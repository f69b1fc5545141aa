package textsearch

import (
	"fmt"
	"strings"
)

// Snippet runs the per-section pipeline: find occurrences, tokenize, build
// merged windows and render. ok is false when the section does not match.
func Snippet(content, term string, opts Options) (snippet string, ok bool) {
	occs := FindOccurrences(content, term, opts.Folding)
	if len(occs) == 0 {
		return "", false
	}
	words := Tokenize(content)
	windows := BuildWindows(words, occs, opts.ContextLength)
	if len(windows) == 0 {
		return "", false
	}
	if opts.Highlight != nil {
		return RenderHighlighted(words, windows, occs, *opts.Highlight), true
	}
	return RenderSnippet(words, windows), true
}

// Search matches term against every section, in order, and groups the
// snippets by filename then page. Sections without a filename are rejected
// before any matching happens. A blank term yields an empty Result; any
// other term is matched literally, surrounding whitespace included.
func Search(sections []Section, term string, opts Options) (*Result, error) {
	for i := range sections {
		if strings.TrimSpace(sections[i].Filename) == "" {
			return nil, fmt.Errorf("section %d (page %d): %w", i, sections[i].Page, ErrMissingFilename)
		}
	}

	res := newResult()
	// 仅用于判断空查询，匹配时保留原始 term
	if strings.TrimSpace(term) == "" {
		return res, nil
	}
	if opts.ContextLength < 0 {
		opts.ContextLength = 0
	}
	for _, s := range sections {
		snippet, ok := Snippet(s.Content, term, opts)
		if !ok {
			continue
		}
		res.add(s, snippet)
	}
	return res, nil
}

// Aggregate is Search with default folding and no highlighting.
func Aggregate(sections []Section, term string, contextLength int) (*Result, error) {
	return Search(sections, term, Options{ContextLength: contextLength})
}

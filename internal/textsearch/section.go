// Package textsearch finds a search term inside page-structured course text
// and renders each hit with a bounded window of surrounding words.
//
// Everything here is pure in-memory computation: callers hand over the
// sections, a term and a context length, and get back an ordered,
// grouped Result. No I/O, no shared state between calls.
package textsearch

import "errors"

// ErrMissingFilename is returned when a section has no filename to group by.
var ErrMissingFilename = errors.New("section 缺少 filename")

// Section is one unit of searchable text (a page, a slide or a single line).
type Section struct {
	Content  string
	Filename string
	Page     int
	BookURL  string
}

// Occurrence is a half-open byte range [Start, End) of the original content
// whose case-folded text equals the case-folded term.
type Occurrence struct {
	Start int
	End   int
}

// Word is a maximal run of non-whitespace; Start/End are byte offsets into
// the original content.
type Word struct {
	Start int
	End   int
	Text  string
}

// Window is an inclusive range of word indices to render.
type Window struct {
	First int
	Last  int
}

// Len returns the number of words the window covers.
func (w Window) Len() int { return w.Last - w.First + 1 }

// Highlight wraps matched text inside rendered snippets.
type Highlight struct {
	Open  string
	Close string
}

// DefaultHighlight mirrors the 【】 markers used by the file finder.
var DefaultHighlight = Highlight{Open: "【", Close: "】"}

// Options controls one search call.
type Options struct {
	// ContextLength is the number of words kept on each side of a hit.
	// Negative values are treated as 0.
	ContextLength int
	Folding       Folding
	// Highlight, when non-nil, marks matched bytes in the snippet.
	Highlight *Highlight
}

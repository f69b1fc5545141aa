package textsearch

// PageResult is the combined snippet of every matching section on one page.
type PageResult struct {
	Page    int    `json:"page"`
	BookURL string `json:"bookUrl"`
	Snippet string `json:"snippet"`
}

// FileResult groups the matching pages of one filename in first-seen order.
type FileResult struct {
	Filename string        `json:"filename"`
	Pages    []*PageResult `json:"pages"`

	byPage map[int]*PageResult
}

// Result is the grouped output of Search. Files and pages keep the order in
// which they were first matched; the lookup maps never drive iteration.
type Result struct {
	Files []*FileResult `json:"files"`

	byName map[string]*FileResult
}

// Record is the flattened transport shape of one page entry.
type Record struct {
	Filename       string `json:"filename"`
	PageNumber     int    `json:"pagenumber"`
	BookChapterURL string `json:"bookchapterurl"`
	ContextSnippet string `json:"contextsnippet"`
}

func newResult() *Result {
	return &Result{Files: []*FileResult{}, byName: map[string]*FileResult{}}
}

// add stores snippet under (s.Filename, s.Page). A page that already has a
// snippet gets the new one appended; its BookURL is kept.
func (r *Result) add(s Section, snippet string) {
	fr, ok := r.byName[s.Filename]
	if !ok {
		fr = &FileResult{Filename: s.Filename, byPage: map[int]*PageResult{}}
		r.byName[s.Filename] = fr
		r.Files = append(r.Files, fr)
	}
	if pr, ok := fr.byPage[s.Page]; ok {
		pr.Snippet += SegmentSeparator + snippet
		return
	}
	pr := &PageResult{Page: s.Page, BookURL: s.BookURL, Snippet: snippet}
	fr.byPage[s.Page] = pr
	fr.Pages = append(fr.Pages, pr)
}

// Lookup returns the entry for (filename, page), if any.
func (r *Result) Lookup(filename string, page int) (*PageResult, bool) {
	fr, ok := r.byName[filename]
	if !ok {
		return nil, false
	}
	pr, ok := fr.byPage[page]
	return pr, ok
}

// Len returns the number of (filename, page) entries.
func (r *Result) Len() int {
	n := 0
	for _, fr := range r.Files {
		n += len(fr.Pages)
	}
	return n
}

// Records flattens the result in display order.
func (r *Result) Records() []Record {
	out := make([]Record, 0, r.Len())
	for _, fr := range r.Files {
		for _, pr := range fr.Pages {
			out = append(out, Record{
				Filename:       fr.Filename,
				PageNumber:     pr.Page,
				BookChapterURL: pr.BookURL,
				ContextSnippet: pr.Snippet,
			})
		}
	}
	return out
}

package textsearch

import (
	"strings"
	"unicode/utf8"
)

// FindOccurrences returns every case-insensitive match of term in content,
// in document order. Overlapping matches are all reported: after a hit the
// scan resumes one rune later ("aa" in "aaa" yields 0 and 1).
//
// An empty or whitespace-only term means no search is performed.
func FindOccurrences(content, term string, f Folding) []Occurrence {
	if strings.TrimSpace(term) == "" || content == "" {
		return nil
	}
	fc := foldText(content, f)
	ft := foldText(term, f).text
	if ft == "" || !strings.Contains(fc.text, ft) {
		return nil
	}

	var occs []Occurrence
	i := 0
	for i+len(ft) <= len(fc.text) {
		idx := strings.Index(fc.text[i:], ft)
		if idx < 0 {
			break
		}
		at := i + idx
		occ := Occurrence{Start: fc.start(at), End: fc.end(content, at+len(ft))}
		// one source rune can fold into several bytes (ß -> ss), so two
		// folded hits may land on the same source range
		if n := len(occs); n == 0 || occs[n-1] != occ {
			occs = append(occs, occ)
		}
		_, size := utf8.DecodeRuneInString(fc.text[at:])
		i = at + size
	}
	return occs
}

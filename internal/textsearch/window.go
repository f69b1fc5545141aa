package textsearch

// ContextWindow returns the unmerged window for a single occurrence: the
// word where the match starts plus up to contextLength words on each side.
// A window never spans more than 2*contextLength+1 words, even when the
// match itself runs over several words.
func ContextWindow(words []Word, occ Occurrence, contextLength int) Window {
	if contextLength < 0 {
		contextLength = 0
	}
	idx := wordAt(words, occ.Start)
	return Window{
		First: max(0, idx-contextLength),
		Last:  min(len(words)-1, idx+contextLength),
	}
}

// BuildWindows computes one window per occurrence and merges every run of
// overlapping or touching windows (next.First <= prev.Last+1) into one.
// occs must be in document order, as FindOccurrences returns them.
func BuildWindows(words []Word, occs []Occurrence, contextLength int) []Window {
	if len(words) == 0 || len(occs) == 0 {
		return nil
	}
	out := make([]Window, 0, len(occs))
	for _, occ := range occs {
		win := ContextWindow(words, occ, contextLength)
		if n := len(out); n > 0 && win.First <= out[n-1].Last+1 {
			if win.Last > out[n-1].Last {
				out[n-1].Last = win.Last
			}
			continue
		}
		out = append(out, win)
	}
	return out
}

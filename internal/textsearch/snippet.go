package textsearch

import "strings"

const (
	// SegmentSeparator joins windows of one section and sections of one page.
	SegmentSeparator = " ... "
	leadingEllipsis  = "... "
	trailingEllipsis = " ..."
)

// RenderSnippet joins the words of each window with a single space and the
// windows with " ... ". A leading "... " is added only when the first window
// does not start at word 0, a trailing " ..." only when the last window
// stops before the final word.
func RenderSnippet(words []Word, windows []Window) string {
	return renderSnippet(words, windows, nil, nil)
}

// RenderHighlighted is RenderSnippet with matched bytes wrapped in hl.
func RenderHighlighted(words []Word, windows []Window, occs []Occurrence, hl Highlight) string {
	return renderSnippet(words, windows, occs, &hl)
}

func renderSnippet(words []Word, windows []Window, occs []Occurrence, hl *Highlight) string {
	if len(words) == 0 || len(windows) == 0 {
		return ""
	}

	var sb strings.Builder
	if windows[0].First > 0 {
		sb.WriteString(leadingEllipsis)
	}
	next := 0 // first occurrence that may still touch an upcoming word
	for wi, win := range windows {
		if wi > 0 {
			sb.WriteString(SegmentSeparator)
		}
		for i := win.First; i <= win.Last; i++ {
			if i > win.First {
				sb.WriteByte(' ')
			}
			w := words[i]
			if hl == nil {
				sb.WriteString(w.Text)
				continue
			}
			for next < len(occs) && occs[next].End <= w.Start {
				next++
			}
			writeMarked(&sb, w, occs[next:], *hl)
		}
	}
	if windows[len(windows)-1].Last < len(words)-1 {
		sb.WriteString(trailingEllipsis)
	}
	return sb.String()
}

// writeMarked writes w with the parts covered by occs wrapped in hl.
// Overlapping or adjacent occurrences inside a word are wrapped once.
func writeMarked(sb *strings.Builder, w Word, occs []Occurrence, hl Highlight) {
	pos := w.Start
	curS, curE := -1, -1
	flush := func() {
		if curS < 0 {
			return
		}
		sb.WriteString(w.Text[pos-w.Start : curS-w.Start])
		sb.WriteString(hl.Open)
		sb.WriteString(w.Text[curS-w.Start : curE-w.Start])
		sb.WriteString(hl.Close)
		pos = curE
		curS = -1
	}
	for _, o := range occs {
		if o.Start >= w.End {
			break
		}
		if o.End <= w.Start {
			continue
		}
		s, e := max(o.Start, w.Start), min(o.End, w.End)
		if curS >= 0 && s <= curE {
			curE = max(curE, e)
			continue
		}
		flush()
		curS, curE = s, e
	}
	flush()
	sb.WriteString(w.Text[pos-w.Start:])
}

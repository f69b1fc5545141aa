package textsearch

import "unicode"

// Tokenize splits content on runs of Unicode whitespace. Each Word keeps its
// byte offsets in content so rendering can slice the original text.
func Tokenize(content string) []Word {
	words := make([]Word, 0, len(content)/6+1)
	start := -1
	for i, r := range content {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, Word{Start: start, End: i, Text: content[start:i]})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, Word{Start: start, End: len(content), Text: content[start:]})
	}
	return words
}

// wordAt returns the index of the word containing byte off, or of the first
// word after it when off falls on whitespace. Offsets past the last word map
// to the last word.
func wordAt(words []Word, off int) int {
	lo, hi := 0, len(words)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		if words[m].End > off {
			hi = m
		} else {
			lo = m + 1
		}
	}
	if lo == len(words) {
		lo = len(words) - 1
	}
	return lo
}


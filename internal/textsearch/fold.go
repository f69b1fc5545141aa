package textsearch

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Folding selects how content and term are case-folded before comparison.
type Folding int

const (
	// FoldSimple lowercases rune by rune (strings.ToLower semantics).
	// One-to-many mappings such as German ß ↔ SS do not match.
	FoldSimple Folding = iota
	// FoldUnicode applies full Unicode case folding.
	FoldUnicode
)

func (f Folding) String() string {
	switch f {
	case FoldUnicode:
		return "unicode"
	default:
		return "simple"
	}
}

// ParseFolding maps a config value to a Folding. Empty means FoldSimple.
func ParseFolding(s string) (Folding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple", "lower":
		return FoldSimple, nil
	case "unicode", "fold":
		return FoldUnicode, nil
	default:
		return FoldSimple, fmt.Errorf("未知的 case_folding: %q", s)
	}
}

// folded is a case-folded copy of some text. orig[i] is the byte offset in
// the source text of the rune that produced folded byte i; it is nil when
// folding kept every byte in place.
type folded struct {
	text string
	orig []int
}

func foldText(s string, f Folding) folded {
	if f == FoldSimple && isASCII(s) {
		return folded{text: strings.ToLower(s)}
	}

	var caser cases.Caser
	if f == FoldUnicode {
		caser = cases.Fold()
	}

	var sb strings.Builder
	sb.Grow(len(s))
	orig := make([]int, 0, len(s)+1)
	for i, r := range s {
		var part string
		if f == FoldUnicode {
			part = caser.String(string(r))
		} else {
			part = string(unicode.ToLower(r))
		}
		sb.WriteString(part)
		for k := 0; k < len(part); k++ {
			orig = append(orig, i)
		}
	}
	orig = append(orig, len(s))
	return folded{text: sb.String(), orig: orig}
}

// start maps a folded offset to the start of its source rune.
func (f folded) start(i int) int {
	if f.orig == nil {
		return i
	}
	return f.orig[i]
}

// end maps an exclusive folded end offset to the end of the source rune
// holding folded byte end-1.
func (f folded) end(src string, end int) int {
	if f.orig == nil {
		return end
	}
	o := f.orig[end-1]
	_, size := utf8.DecodeRuneInString(src[o:])
	return o + size
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

package textsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOccurrences_Overlapping(t *testing.T) {
	occs := FindOccurrences("aaa", "aa", FoldSimple)
	assert.Equal(t, []Occurrence{{Start: 0, End: 2}, {Start: 1, End: 3}}, occs)
}

func TestFindOccurrences_CaseInsensitive(t *testing.T) {
	occs := FindOccurrences("Fox and FOX and fOx", "fox", FoldSimple)
	require.Len(t, occs, 3)
	assert.Equal(t, Occurrence{Start: 8, End: 11}, occs[1])
}

func TestFindOccurrences_BlankTermOrContent(t *testing.T) {
	assert.Empty(t, FindOccurrences("anything", "", FoldSimple))
	assert.Empty(t, FindOccurrences("anything", "  \t", FoldSimple))
	assert.Empty(t, FindOccurrences("", "x", FoldSimple))
	assert.Empty(t, FindOccurrences("no match here", "fox", FoldSimple))
}

func TestFindOccurrences_NonASCIIOffsetsPointAtSource(t *testing.T) {
	content := "İstanbul is big"
	occs := FindOccurrences(content, "istanbul", FoldSimple)
	require.Len(t, occs, 1)
	assert.Equal(t, "İstanbul", content[occs[0].Start:occs[0].End])
}

func TestFindOccurrences_Folding(t *testing.T) {
	content := "Straße und STRASSE"

	simple := FindOccurrences(content, "strasse", FoldSimple)
	require.Len(t, simple, 1)
	assert.Equal(t, "STRASSE", content[simple[0].Start:simple[0].End])

	full := FindOccurrences(content, "strasse", FoldUnicode)
	require.Len(t, full, 2)
	assert.Equal(t, "Straße", content[full[0].Start:full[0].End])
	assert.Equal(t, "STRASSE", content[full[1].Start:full[1].End])
}

func TestFindOccurrences_ExpandedRuneReportedOnce(t *testing.T) {
	occs := FindOccurrences("ß", "s", FoldUnicode)
	assert.Equal(t, []Occurrence{{Start: 0, End: 2}}, occs)
}

func TestParseFolding(t *testing.T) {
	f, err := ParseFolding("")
	require.NoError(t, err)
	assert.Equal(t, FoldSimple, f)

	f, err = ParseFolding(" Unicode ")
	require.NoError(t, err)
	assert.Equal(t, FoldUnicode, f)
	assert.Equal(t, "unicode", f.String())

	_, err = ParseFolding("turkish")
	assert.Error(t, err)
}

package textsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSnippet_Ellipsis(t *testing.T) {
	words := Tokenize("w0 w1 w2 w3 w4")
	tests := []struct {
		name    string
		windows []Window
		want    string
	}{
		{"whole text", []Window{{0, 4}}, "w0 w1 w2 w3 w4"},
		{"starts at first word", []Window{{0, 1}}, "w0 w1 ..."},
		{"ends at last word", []Window{{3, 4}}, "... w3 w4"},
		{"middle", []Window{{2, 2}}, "... w2 ..."},
		{"two segments", []Window{{0, 0}, {2, 2}}, "w0 ... w2 ..."},
		{"two segments to the end", []Window{{1, 1}, {3, 4}}, "... w1 ... w3 w4"},
		{"no windows", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSnippet(words, tt.windows))
		})
	}
}

func TestSnippet_Highlight(t *testing.T) {
	hl := DefaultHighlight
	opts := Options{ContextLength: 0, Highlight: &hl}

	got, ok := Snippet("aaa", "aa", opts)
	assert.True(t, ok)
	assert.Equal(t, "【aaa】", got)

	got, ok = Snippet("the brown fox", "BROWN FOX", opts)
	assert.True(t, ok)
	assert.Equal(t, "... 【brown】 ...", got)

	got, ok = Snippet("unfoxed fox", "fox", Options{ContextLength: 1, Highlight: &hl})
	assert.True(t, ok)
	assert.Equal(t, "un【fox】ed 【fox】", got)

	got, ok = Snippet("İstanbul is big", "istanbul", Options{Highlight: &Highlight{Open: "<b>", Close: "</b>"}})
	assert.True(t, ok)
	assert.Equal(t, "<b>İstanbul</b> ...", got)
}

func TestSnippet_NoMatch(t *testing.T) {
	got, ok := Snippet("nothing to see", "fox", Options{ContextLength: 3})
	assert.False(t, ok)
	assert.Empty(t, got)
}

package search

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course_find/internal/extract"
	"course_find/internal/textsearch"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func writeSlides(t *testing.T, path string, slides ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for i, text := range slides {
		w, err := zw.Create("ppt/slides/slide" + string(rune('1'+i)) + ".xml")
		require.NoError(t, err)
		_, err = w.Write([]byte(`<p:sld xmlns:p="p" xmlns:a="a"><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:sld>`))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func courseDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "book", "chapter1.txt"),
		"Goroutines are cheap\nchannels connect goroutines\fthe select statement waits on channels")
	writeFile(t, filepath.Join(root, "book", "chapter2.md"), "nothing relevant here")
	writeFile(t, filepath.Join(root, "ignored.bin"), "channels")
	writeSlides(t, filepath.Join(root, "slides", "week1.pptx"), "Intro", "Channels and select")
	return root
}

func TestRun_GroupsByFileAndPage(t *testing.T) {
	root := courseDir(t)
	res, err := Run(context.Background(), Config{
		Roots:      []string{root},
		Query:      "channels",
		ContextLen: 1,
		Workers:    3,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []textsearch.Record{
		{
			Filename:       "book/chapter1.txt",
			PageNumber:     1,
			BookChapterURL: "file://" + filepath.ToSlash(filepath.Join(root, "book", "chapter1.txt")) + "#page=1",
			ContextSnippet: "... cheap channels connect ...",
		},
		{
			Filename:       "book/chapter1.txt",
			PageNumber:     2,
			BookChapterURL: "file://" + filepath.ToSlash(filepath.Join(root, "book", "chapter1.txt")) + "#page=2",
			ContextSnippet: "... on channels",
		},
		{
			Filename:       "slides/week1.pptx",
			PageNumber:     2,
			BookChapterURL: "file://" + filepath.ToSlash(filepath.Join(root, "slides", "week1.pptx")) + "#page=2",
			ContextSnippet: "Channels and ...",
		},
	}, res.Records())
}

func TestRun_LineGranularityCombinesPage(t *testing.T) {
	root := courseDir(t)
	res, err := Run(context.Background(), Config{
		Roots:       []string{root},
		Query:       "goroutines",
		ContextLen:  0,
		Granularity: GranularityLine,
		BookURL:     "https://course.example/{filename}?p={page}",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())

	pr, ok := res.Lookup("book/chapter1.txt", 1)
	require.True(t, ok)
	assert.Equal(t, "Goroutines ... ... ... goroutines", pr.Snippet)
	assert.Equal(t, "https://course.example/book/chapter1.txt?p=1", pr.BookURL)
}

func TestRun_UsesCacheAndReportsProgress(t *testing.T) {
	root := courseDir(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	var calls atomic.Int64
	cfg := Config{Roots: []string{root}, Query: "select", ContextLen: 2, CacheDir: cacheDir, Highlight: true}

	first, err := Run(context.Background(), cfg, func(p Progress) { calls.Add(1) })
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	second, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Records(), second.Records())

	pr, ok := second.Lookup("slides/week1.pptx", 2)
	require.True(t, ok)
	assert.Equal(t, "Channels and 【select】", pr.Snippet)
}

func TestRun_SkipsBrokenFiles(t *testing.T) {
	root := courseDir(t)
	writeFile(t, filepath.Join(root, "slides", "broken.pptx"), "not a zip")
	var sawFailure atomic.Bool
	res, err := Run(context.Background(), Config{Roots: []string{root}, Query: "intro"}, func(p Progress) {
		if p.FilesFailed > 0 {
			sawFailure.Store(true)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	assert.True(t, sawFailure.Load())
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Config{Query: "x"}, nil)
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Roots: []string{t.TempDir()}, Query: "x", Granularity: "word"}, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Config{Roots: []string{courseDir(t)}, Query: "x"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_BlankQuery(t *testing.T) {
	res, err := Run(context.Background(), Config{Roots: []string{courseDir(t)}, Query: "  "}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
}

func TestRun_SeveralRootsKeepFilesApart(t *testing.T) {
	parent := t.TempDir()
	writeFile(t, filepath.Join(parent, "a", "notes.txt"), "alpha fox")
	writeFile(t, filepath.Join(parent, "b", "notes.txt"), "beta fox")

	res, err := Run(context.Background(), Config{
		Roots: []string{filepath.Join(parent, "a"), filepath.Join(parent, "b")},
		Query: "fox",
	}, nil)
	require.NoError(t, err)

	records := res.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a/notes.txt", records[0].Filename)
	assert.Equal(t, "... fox", records[0].ContextSnippet)
	assert.Equal(t, "b/notes.txt", records[1].Filename)
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(parent, "b", "notes.txt"))+"#page=1", records[1].BookChapterURL)
}

func TestWalkRoots_NameCollisionUsesAbsolutePath(t *testing.T) {
	parent := t.TempDir()
	first := filepath.Join(parent, "x", "course")
	second := filepath.Join(parent, "y", "course")
	writeFile(t, filepath.Join(first, "notes.txt"), "one")
	writeFile(t, filepath.Join(second, "notes.txt"), "two")

	docs, err := walkRoots(context.Background(), []string{first, second, first})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "course/notes.txt", docs[0].name)
	assert.Equal(t, filepath.ToSlash(filepath.Join(second, "notes.txt")), docs[1].name)
}

func TestSplitSections(t *testing.T) {
	p := extract.Page{Number: 3, Text: "first line\n\n  second line  \n"}
	assert.Equal(t, []string{p.Text}, SplitSections(p, GranularityPage))
	assert.Equal(t, []string{p.Text}, SplitSections(p, ""))
	assert.Equal(t, []string{"first line", "second line"}, SplitSections(p, GranularityLine))
	assert.Empty(t, SplitSections(extract.Page{Number: 1}, GranularityLine))
}

func TestRun_TextCapSameWithAndWithoutCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "long.txt"), "0123456789 fox")
	cfg := Config{Roots: []string{root}, Query: "fox", MaxTextBytes: 10}

	uncached, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Len())

	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	cached, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cached.Len())

	cfg.MaxTextBytes = 0
	cfg.CacheDir = ""
	full, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, full.Len())
}

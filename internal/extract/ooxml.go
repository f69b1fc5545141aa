package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideEntry = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// pptxPages returns one Page per slide, numbered by the slide file index.
func pptxPages(ctx context.Context, path string) ([]Page, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	slides := make([]slide, 0, 32)
	for _, f := range zr.File {
		m := slideEntry.FindStringSubmatch(strings.ToLower(f.Name))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slide{num: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	pages := make([]Page, 0, len(slides))
	for _, s := range slides {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rc, err := s.file.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.file.Name, err)
		}
		texts, err := ooxmlText(ctx, rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.file.Name, err)
		}
		pages = append(pages, Page{Number: s.num, Text: strings.Join(texts, "\n")})
	}
	return pages, nil
}

// docxPages reads word/document.xml; explicit page breaks start a new Page.
func docxPages(ctx context.Context, path string) ([]Page, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, "word/document.xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		blocks, err := ooxmlText(ctx, rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		pages := make([]Page, 0, len(blocks))
		for i, b := range blocks {
			pages = append(pages, Page{Number: i + 1, Text: b})
		}
		return pages, nil
	}
	return nil, errors.New("docx 缺少 word/document.xml")
}

// ooxmlText collects the text of <t> runs, one line per <p> paragraph.
// A <br type="page"/> closes the current block; pptx never has one so a
// slide is always a single block.
func ooxmlText(ctx context.Context, r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		blocks []string
		block  strings.Builder
		inText bool
	)
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch v := tok.(type) {
		case xml.StartElement:
			switch v.Name.Local {
			case "t":
				inText = true
			case "tab":
				block.WriteByte('\t')
			case "br":
				if isPageBreak(v) {
					blocks = append(blocks, strings.TrimRight(block.String(), "\n"))
					block.Reset()
				} else {
					block.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch v.Name.Local {
			case "t":
				inText = false
			case "p":
				block.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				block.Write(v)
			}
		}
	}
	blocks = append(blocks, strings.TrimRight(block.String(), "\n"))
	return blocks, nil
}

func isPageBreak(e xml.StartElement) bool {
	for _, a := range e.Attr {
		if a.Name.Local == "type" && a.Value == "page" {
			return true
		}
	}
	return false
}

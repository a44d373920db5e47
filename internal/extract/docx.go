package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// NewDOCX parses a .docx and turns its heading-styled paragraphs into
// chapters. Headings at the configured chapter levels open a new
// chapter; deeper headings stay in the body.
func NewDOCX(data []byte, opts Options) (ChapterExtractor, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []chapterBlock
	var body []string
	title := ""
	depth := 1

	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n\n"))
		if title != "" || content != "" {
			blocks = append(blocks, chapterBlock{title: title, depth: depth, text: content})
		}
		body = body[:0]
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := docxHeadingLevel(para)
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		if level > 0 && opts.chapterLevel(level) {
			if title != "" || len(body) > 0 {
				flush()
			}
			title = text
			depth = level
			continue
		}
		body = append(body, text)
	}
	flush()

	return &blockExtractor{blocks: blocks}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch style {
	case "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

package extract

import (
	"fmt"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// NewPDF extracts the plain text of a PDF and splits it into chapters
// by heading lines, falling back to one chapter per page when no
// heading structure is recognizable.
func NewPDF(data []byte) (ChapterExtractor, error) {
	// ledongthuc/pdf needs a ReadSeeker+size, so the bytes go through
	// a temp file.
	tmp, err := os.CreateTemp("", "lectern-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return &blockExtractor{blocks: pdfBlocks(text)}, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // form feed as page separator
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

// pdfBlocks prefers heading-delimited chapters; without headings each
// page becomes a chapter.
func pdfBlocks(text string) []chapterBlock {
	normalized := strings.ReplaceAll(text, "\f", "\n\n")
	blocks := splitChapterBlocks(normalized)

	for _, b := range blocks {
		if b.title != "" {
			return blocks
		}
	}

	var pages []chapterBlock
	for i, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		pages = append(pages, chapterBlock{
			title: fmt.Sprintf("Page %d", i+1),
			depth: 1,
			text:  page,
		})
	}
	if len(pages) > 0 {
		return pages
	}
	return blocks
}

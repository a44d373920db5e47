package extract

import (
	"fmt"
	"strings"

	"github.com/lecternhq/lectern/internal/document"
	"github.com/lecternhq/lectern/internal/textproc"
)

// chapterBlock is one pre-split chapter candidate: a heading plus the
// text that follows it. The text formats (plain text, PDF, Markdown,
// DOCX, HTML) all reduce to a block list.
type chapterBlock struct {
	title string
	depth int
	text  string
}

// blockExtractor implements ChapterExtractor over pre-split blocks.
type blockExtractor struct {
	blocks []chapterBlock
}

func (b *blockExtractor) Units() ([]ContentUnit, error) {
	units := make([]ContentUnit, len(b.blocks))
	for i, blk := range b.blocks {
		units[i] = ContentUnit{
			ID:      fmt.Sprintf("chapter-%d", i+1),
			Title:   blk.title,
			Depth:   blk.depth,
			Ordinal: i,
		}
	}
	return units, nil
}

func (b *blockExtractor) Extract(unit ContentUnit, offset int, opts Options) (document.Chapter, error) {
	if unit.Ordinal < 0 || unit.Ordinal >= len(b.blocks) {
		return document.Chapter{}, fmt.Errorf("no content block at ordinal %d", unit.Ordinal)
	}
	blk := b.blocks[unit.Ordinal]

	paragraphs := textproc.ExtractParagraphBlocks(blk.text)
	title := deriveTitle(unit.Title, paragraphs, unit.Href, unit.Ordinal+1)
	return buildChapter(unit.ID, title, unit.Depth, offset, paragraphs, blk.text, opts), nil
}

// splitChapterBlocks splits plain text into heading-delimited chapter
// blocks. Text before the first heading becomes an untitled leading
// block; text with no headings at all becomes a single block.
func splitChapterBlocks(text string) []chapterBlock {
	var blocks []chapterBlock
	var body []string
	title := ""

	flush := func() {
		content := strings.TrimRight(strings.Join(body, "\n"), " \t\n")
		content = strings.TrimLeft(content, "\n")
		if title != "" || strings.TrimSpace(content) != "" {
			blocks = append(blocks, chapterBlock{title: title, depth: 1, text: content})
		}
		body = body[:0]
		title = ""
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if textproc.IsChapterHeading(trimmed) {
			if title != "" || strings.TrimSpace(strings.Join(body, "\n")) != "" {
				flush()
			}
			title = trimmed
			body = body[:0]
			continue
		}
		body = append(body, line)
	}
	flush()

	return blocks
}

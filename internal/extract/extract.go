// Package extract turns raw document content into chapters. Each
// format implements the same ChapterExtractor contract; Run drives the
// shared sequential loop that accumulates global character offsets and
// degrades gracefully when a single unit cannot be read.
package extract

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"unicode"

	"github.com/lecternhq/lectern/internal/document"
	"github.com/lecternhq/lectern/internal/textproc"
)

// Options are the parse options shared by every extractor.
type Options struct {
	// PreserveHTML keeps raw markup in paragraph text instead of
	// stripping tags.
	PreserveHTML bool

	// ExtractMedia categorizes embedded assets where the format
	// declares them.
	ExtractMedia bool

	// ReadingSpeedWPM drives estimated durations.
	ReadingSpeedWPM int

	// ChapterHeaderLevels lists the heading levels that start a new
	// chapter in heading-structured formats.
	ChapterHeaderLevels []int
}

// DefaultOptions returns the standard parse options.
func DefaultOptions() Options {
	return Options{
		ReadingSpeedWPM:     textproc.DefaultWordsPerMinute,
		ChapterHeaderLevels: []int{1, 2},
	}
}

func (o Options) wpm() int {
	if o.ReadingSpeedWPM > 0 {
		return o.ReadingSpeedWPM
	}
	return textproc.DefaultWordsPerMinute
}

func (o Options) chapterLevel(level int) bool {
	levels := o.ChapterHeaderLevels
	if len(levels) == 0 {
		levels = []int{1, 2}
	}
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

// ContentUnit identifies one logical unit of content: a spine item for
// EPUB, a heading-delimited block for text formats.
type ContentUnit struct {
	ID      string
	Href    string
	Title   string
	Depth   int
	Ordinal int
}

// ChapterExtractor is the per-format contract. Units returns the
// ordered content units; Extract converts one unit into a chapter
// whose character range starts at the given global offset.
type ChapterExtractor interface {
	Units() ([]ContentUnit, error)
	Extract(unit ContentUnit, offset int, opts Options) (document.Chapter, error)
}

// Run drives extraction over all units sequentially. A unit that fails
// is logged, replaced with a placeholder chapter and does not advance
// the global offset; extraction continues with the next unit. The
// returned error strings feed processingMetrics.
func Run(logger *slog.Logger, ex ChapterExtractor, opts Options) ([]document.Chapter, []string, error) {
	units, err := ex.Units()
	if err != nil {
		return nil, nil, fmt.Errorf("list content units: %w", err)
	}

	chapters := make([]document.Chapter, 0, len(units))
	var procErrors []string
	globalIndex := 0

	for i, unit := range units {
		ch, err := ex.Extract(unit, globalIndex, opts)
		if err != nil {
			logger.Warn("content unit extraction failed",
				"unit_id", unit.ID, "ordinal", i, "error", err)
			procErrors = append(procErrors,
				fmt.Sprintf("unit %s: %v", unit.ID, err))
			ch = placeholderChapter(unit, i, globalIndex)
		} else {
			globalIndex = ch.CharRange.End
		}
		ch.Position = i
		chapters = append(chapters, ch)
	}

	return chapters, procErrors, nil
}

// placeholderChapter stands in for a unit whose content could not be
// read. It contributes no text, so both range ends sit at the current
// offset.
func placeholderChapter(unit ContentUnit, ordinal, offset int) document.Chapter {
	return document.Chapter{
		ID:         unitChapterID(unit, ordinal),
		Title:      deriveTitle(unit.Title, nil, unit.Href, ordinal+1),
		Depth:      1,
		Paragraphs: []document.Paragraph{},
		CharRange:  document.CharRange{Start: offset, End: offset},
		Confidence: 0,
	}
}

// buildChapter assembles a chapter from cleaned paragraph blocks,
// assigning sentence offsets relative to the running global index. raw
// is the unmodified unit content, used only for special-element
// detection.
func buildChapter(id, title string, depth, startIndex int, blocks []string, raw string, opts Options) document.Chapter {
	offset := startIndex
	paragraphs := make([]document.Paragraph, 0, len(blocks))
	totalWords := 0
	totalSentences := 0

	for pi, block := range blocks {
		spans := textproc.ScanSentences(block)
		sentences := make([]document.Sentence, len(spans))
		for si, sp := range spans {
			sentences[si] = document.Sentence{
				Text:       sp.Text,
				StartIndex: offset + sp.Start,
				EndIndex:   offset + sp.End,
			}
		}

		words := textproc.CountWords(block)
		paragraphs = append(paragraphs, document.Paragraph{
			ID:             fmt.Sprintf("%s-p%d", id, pi+1),
			Sentences:      sentences,
			Position:       pi,
			WordCount:      words,
			RawText:        block,
			IncludeInAudio: words > 0,
			Confidence:     scoreParagraph(words, len(spans)),
		})

		totalWords += words
		totalSentences += len(sentences)
		offset += len(block) + 1 // one separator between blocks
	}

	content := strings.Join(blocks, "\n")
	ch := document.Chapter{
		ID:                id,
		Title:             title,
		Depth:             max(depth, 1),
		Paragraphs:        paragraphs,
		CharRange:         document.CharRange{Start: startIndex, End: startIndex + len(content)},
		WordCount:         totalWords,
		EstimatedDuration: textproc.SpeakingDurationSeconds(totalWords, opts.wpm()),
		Confidence: document.ScoreChapter(document.ContentSignals{
			Content:            content,
			ParagraphCount:     len(paragraphs),
			SentenceCount:      totalSentences,
			HasSpecialElements: document.HasSpecialElements(raw),
		}),
	}
	return ch
}

// scoreParagraph rates how confidently a block was segmented.
func scoreParagraph(words, sentences int) float64 {
	score := document.BaseConfidence
	if sentences >= 1 && sentences <= 50 {
		score += 0.1
	}
	if words > 3 {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}

func unitChapterID(unit ContentUnit, ordinal int) string {
	if unit.ID != "" {
		return unit.ID
	}
	return fmt.Sprintf("chapter-%d", ordinal+1)
}

// deriveTitle applies the title fallback chain: an explicit title (from
// the TOC or a heading), then the first heading-looking line of the
// content, then the filename, then an ordinal.
func deriveTitle(explicit string, blocks []string, href string, ordinal int) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	for _, block := range blocks {
		for _, line := range strings.Split(block, "\n") {
			if textproc.IsChapterHeading(line) {
				return strings.TrimSpace(line)
			}
		}
		break // only the leading block can carry the title
	}
	if t := titleFromFilename(href); t != "" {
		return t
	}
	return fmt.Sprintf("Chapter %d", ordinal)
}

// titleFromFilename strips the extension and capitalizes the first
// letter of a content file name.
func titleFromFilename(href string) string {
	base := path.Base(strings.TrimSpace(href))
	if base == "" || base == "." || base == "/" {
		return ""
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return ""
	}
	runes := []rune(base)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

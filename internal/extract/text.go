package extract

// NewText splits plain text into heading-delimited chapters. Lines
// matching a chapter-heading pattern open a new chapter; everything
// else is body text.
func NewText(content string) ChapterExtractor {
	return &blockExtractor{blocks: splitChapterBlocks(content)}
}

package document

import "time"

// averageWordLength is the rough character width of a word (including
// the separator), used only for the source-length estimate in metrics.
const averageWordLength = 6

// AssembleInput carries everything the assembler combines. The
// assembler never re-derives or mutates chapter content.
type AssembleInput struct {
	Metadata  Metadata
	Chapters  []Chapter
	TOC       []TOCItem
	Assets    EmbeddedAssets
	StartedAt time.Time
	Errors    []string
}

// Assemble is the terminal, side-effect-free combination step: it
// computes aggregate statistics and processing metrics and merges all
// parts into the final DocumentStructure.
func Assemble(in AssembleInput) DocumentStructure {
	totals := ComputeTotals(in.Chapters)
	completed := time.Now()

	chapters := in.Chapters
	if chapters == nil {
		chapters = []Chapter{}
	}
	toc := in.TOC
	if toc == nil {
		toc = []TOCItem{}
	}

	md := in.Metadata
	if md.WordCount == 0 {
		md.WordCount = totals.Words
	}
	if md.CharCount == 0 {
		md.CharCount = totals.Words * averageWordLength
	}

	return DocumentStructure{
		Metadata:        md,
		Chapters:        chapters,
		TableOfContents: toc,
		EmbeddedAssets:  in.Assets,

		TotalParagraphs:        totals.Paragraphs,
		TotalSentences:         totals.Sentences,
		TotalWordCount:         totals.Words,
		TotalChapters:          totals.Chapters,
		EstimatedTotalDuration: totals.Duration,

		Confidence: DocumentConfidence(in.Chapters),

		ProcessingMetrics: ProcessingMetrics{
			StartedAt:        in.StartedAt,
			CompletedAt:      completed,
			DurationMs:       completed.Sub(in.StartedAt).Milliseconds(),
			SourceLength:     totals.Words * averageWordLength,
			ProcessingErrors: in.Errors,
		},
	}
}

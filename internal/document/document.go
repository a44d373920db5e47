package document

import "time"

// DocumentStructure is the root output of the extraction pipeline: a
// normalized chapter/paragraph/sentence hierarchy with offsets, counts
// and confidence, ready for downstream speech synthesis.
type DocumentStructure struct {
	Metadata        Metadata       `json:"metadata"`
	Chapters        []Chapter      `json:"chapters"`
	TableOfContents []TOCItem      `json:"table_of_contents"`
	EmbeddedAssets  EmbeddedAssets `json:"embedded_assets"`

	TotalParagraphs        int     `json:"total_paragraphs"`
	TotalSentences         int     `json:"total_sentences"`
	TotalWordCount         int     `json:"total_word_count"`
	TotalChapters          int     `json:"total_chapters"`
	EstimatedTotalDuration float64 `json:"estimated_total_duration_s"`

	// Confidence is a heuristic [0,1] quality score for the whole
	// extraction, the mean of the chapter confidences.
	Confidence float64 `json:"confidence"`

	ProcessingMetrics ProcessingMetrics `json:"processing_metrics"`
}

// Metadata is the document-level descriptive metadata.
type Metadata struct {
	Title     string            `json:"title"`
	Author    string            `json:"author,omitempty"`
	Language  string            `json:"language,omitempty"`
	WordCount int               `json:"word_count"`
	CharCount int               `json:"char_count"`
	Format    string            `json:"format"`
	Custom    map[string]string `json:"custom,omitempty"`
}

// CharRange is a half-open [Start, End) character offset range into the
// reconstructed document text.
type CharRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Chapter is one extracted content unit. Chapters are created once
// during extraction and are immutable afterwards, except for the
// hierarchy enrichment pass which sets Depth, Confidence and ParentID.
type Chapter struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Depth      int         `json:"depth"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Position   int         `json:"position"`
	CharRange  CharRange   `json:"char_range"`
	WordCount  int         `json:"word_count"`

	// EstimatedDuration is the spoken duration in seconds.
	EstimatedDuration float64 `json:"estimated_duration_s"`
	Confidence        float64 `json:"confidence,omitempty"`
	ParentID          string  `json:"parent_id,omitempty"`
}

// Paragraph groups the sentences of one paragraph. Sentences partition
// RawText: every character belongs to exactly one sentence span, modulo
// a trimmed whitespace tail.
type Paragraph struct {
	ID             string     `json:"id"`
	Sentences      []Sentence `json:"sentences"`
	Position       int        `json:"position"`
	WordCount      int        `json:"word_count"`
	RawText        string     `json:"raw_text"`
	IncludeInAudio bool       `json:"include_in_audio"`
	Confidence     float64    `json:"confidence"`
}

// Sentence is a span into the reconstructed document text: StartIndex
// and EndIndex share the owning chapter's CharRange base, and
// StartIndex < EndIndex always holds.
type Sentence struct {
	Text       string `json:"text"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// TOCItem is one navigation entry. Children are owned exclusively by
// their parent.
type TOCItem struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Href     string    `json:"href"`
	Level    int       `json:"level"`
	Children []TOCItem `json:"children,omitempty"`
}

// Asset is one embedded resource reference.
type Asset struct {
	ID        string `json:"id"`
	Href      string `json:"href"`
	MediaType string `json:"media_type"`
}

// EmbeddedAssets groups embedded resources by broad media category.
type EmbeddedAssets struct {
	Images []Asset `json:"images,omitempty"`
	Audio  []Asset `json:"audio,omitempty"`
	Video  []Asset `json:"video,omitempty"`
	Fonts  []Asset `json:"fonts,omitempty"`
	Other  []Asset `json:"other,omitempty"`
}

// ProcessingMetrics captures timing and the non-fatal errors collected
// while building the structure.
type ProcessingMetrics struct {
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
	DurationMs       int64     `json:"duration_ms"`
	SourceLength     int       `json:"source_length"`
	ProcessingErrors []string  `json:"processing_errors,omitempty"`
}

package document

import (
	"strings"

	"github.com/lecternhq/lectern/internal/textproc"
)

// BaseConfidence is the starting score before structural bonuses.
const BaseConfidence = 0.7

// ContentSignals are the observations about one chapter's extracted
// content that drive confidence scoring.
type ContentSignals struct {
	Content            string
	ParagraphCount     int
	SentenceCount      int
	HasSpecialElements bool
}

// bonusRule maps one observation to a score bonus. Rules are evaluated
// in order and their bonuses accumulate onto the base score.
type bonusRule struct {
	name  string
	bonus func(ContentSignals, int) float64 // signals, heading count
}

var bonusRules = []bonusRule{
	{"heading density", func(_ ContentSignals, headings int) float64 {
		switch {
		case headings >= 5:
			return 0.15
		case headings >= 3:
			return 0.10
		case headings >= 1:
			return 0.05
		}
		return 0
	}},
	{"paragraph distribution", func(s ContentSignals, _ int) float64 {
		switch {
		case s.ParagraphCount >= 2 && s.ParagraphCount <= 10:
			return 0.10
		case s.ParagraphCount >= 1:
			return 0.05
		}
		return 0
	}},
	{"sentence distribution", func(s ContentSignals, _ int) float64 {
		switch {
		case s.SentenceCount >= 3 && s.SentenceCount <= 30:
			return 0.10
		case s.SentenceCount >= 1:
			return 0.05
		}
		return 0
	}},
	{"content length", func(s ContentSignals, _ int) float64 {
		n := len(strings.TrimSpace(s.Content))
		switch {
		case n >= 500:
			return 0.15
		case n >= 200:
			return 0.10
		case n >= 100:
			return 0.05
		}
		return 0
	}},
	{"special elements", func(s ContentSignals, _ int) float64 {
		if s.HasSpecialElements {
			return 0.10
		}
		return 0
	}},
}

// ScoreChapter derives a [0,1] confidence score for one chapter's
// content. A handful of degenerate shapes get fixed scores; everything
// else starts at BaseConfidence and accumulates structural bonuses.
func ScoreChapter(sig ContentSignals) float64 {
	trimmed := strings.TrimSpace(sig.Content)
	words := textproc.CountWords(trimmed)
	headings := textproc.CountHeadingLines(trimmed)

	switch {
	case len(trimmed) == 1:
		// Single-character content: nonzero but not derived from bonuses.
		return 0.8
	case words <= 3:
		return 0.2
	case headings > 0 && len(trimmed) < 100:
		// Recognizable structure, minimal content.
		return 0.6
	case headings == 0 && sig.ParagraphCount <= 1 && len(trimmed) >= 200:
		// No clear structure but reasonable length.
		return 0.8
	}

	score := BaseConfidence
	for _, rule := range bonusRules {
		score += rule.bonus(sig, headings)
	}
	return clamp01(score)
}

// DocumentConfidence is the arithmetic mean of chapter confidences, or
// the base score when there are no chapters.
func DocumentConfidence(chapters []Chapter) float64 {
	if len(chapters) == 0 {
		return BaseConfidence
	}
	var sum float64
	for _, ch := range chapters {
		sum += ch.Confidence
	}
	return clamp01(sum / float64(len(chapters)))
}

// HasSpecialElements reports whether raw content contains tables or
// figures, which earn a flat confidence bonus.
func HasSpecialElements(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "<table") ||
		strings.Contains(lower, "<figure") ||
		strings.Contains(lower, "|---")
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

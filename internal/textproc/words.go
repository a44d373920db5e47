package textproc

import (
	"math"
	"strings"
)

// DefaultWordsPerMinute is the canonical reading speed used when the
// caller does not configure one.
const DefaultWordsPerMinute = 200

// maxURLWordCount caps how many words a single URL token contributes.
const maxURLWordCount = 3

// maxHyphenParts caps how many words a hyphenated token contributes.
const maxHyphenParts = 4

// CountWords counts the words in text. Tokens are produced by whitespace
// splitting and then classified: URLs contribute min(segments, 3),
// hyphenated tokens contribute one word per part (bounded), tokens with
// no letters or digits (bare punctuation, emoji) contribute nothing, and
// everything else — plain words, decimal numbers — contributes one.
// Returns 0 for empty input.
func CountWords(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, tok := range strings.Fields(text) {
		count += countToken(tok)
	}
	return count
}

func countToken(tok string) int {
	if isURLToken(tok) {
		n := urlSegmentCount(tok)
		if n > maxURLWordCount {
			n = maxURLWordCount
		}
		if n < 1 {
			n = 1
		}
		return n
	}
	if !hasAlphanumeric(tok) {
		return 0
	}
	if strings.ContainsRune(tok, '-') {
		n := 0
		for _, part := range strings.Split(tok, "-") {
			if hasAlphanumeric(part) {
				n++
			}
		}
		if n > maxHyphenParts {
			n = maxHyphenParts
		}
		if n < 1 {
			n = 1
		}
		return n
	}
	return 1
}

// isURLToken reports whether tok looks like a URL.
func isURLToken(tok string) bool {
	lower := strings.ToLower(tok)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.")
}

// urlSegmentCount counts the host and path segments of a URL token.
func urlSegmentCount(tok string) int {
	lower := strings.ToLower(tok)
	lower = strings.TrimPrefix(lower, "http://")
	lower = strings.TrimPrefix(lower, "https://")
	n := 0
	for _, seg := range strings.Split(lower, "/") {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}

// ReadingTimeMinutes estimates reading time in whole minutes,
// rounding up. A non-positive wpm falls back to the default speed.
func ReadingTimeMinutes(wordCount, wpm int) int {
	if wordCount <= 0 {
		return 0
	}
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	return int(math.Ceil(float64(wordCount) / float64(wpm)))
}

// SpeakingDurationSeconds estimates spoken duration in seconds for the
// given word count at the configured reading speed.
func SpeakingDurationSeconds(wordCount, wpm int) float64 {
	if wordCount <= 0 {
		return 0
	}
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	return float64(wordCount) * (60.0 / float64(wpm))
}

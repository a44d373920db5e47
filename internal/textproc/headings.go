package textproc

import (
	"regexp"
	"strings"
)

const (
	minHeadingLength = 3
	maxHeadingLength = 100
)

// headingPatterns matches the line shapes we accept as chapter headings
// in plain text: "Chapter 12", "Section 3", "Part IV", "1. Title",
// "IV. Title", "A. Title", "a. Title" and markdown "#"/"##" prefixes.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(chapter|section|part)\s+[0-9ivxlcdm]+\b`),
	regexp.MustCompile(`^\d+\.(\s|$)`),
	regexp.MustCompile(`(?i)^[ivxlcdm]+\.(\s|$)`),
	regexp.MustCompile(`^[A-Za-z]\.(\s|$)`),
	regexp.MustCompile(`^#{1,2}\s+\S`),
}

// IsChapterHeading reports whether a trimmed line looks like a chapter
// or section heading.
func IsChapterHeading(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < minHeadingLength || len(line) > maxHeadingLength {
		return false
	}
	for _, re := range headingPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// CountHeadingLines counts the lines of text that qualify as chapter
// headings. Used by confidence scoring to gauge structural richness.
func CountHeadingLines(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if IsChapterHeading(line) {
			n++
		}
	}
	return n
}

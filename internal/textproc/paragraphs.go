package textproc

import (
	"regexp"
	"strings"
)

var (
	pTagRe     = regexp.MustCompile(`(?is)<p\b[^>]{0,512}>(.*?)</p\s{0,8}>`)
	blankSplit = regexp.MustCompile(`\n[ \t]*\n+`)
)

// ExtractParagraphBlocks splits content into paragraph strings.
//
// HTML content (anything containing <p> elements) yields the cleaned
// inner text of each <p>. Plain text is split on blank lines; a block
// that spans several non-empty lines is split further so that each line
// becomes its own paragraph.
func ExtractParagraphBlocks(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	if matches := pTagRe.FindAllStringSubmatch(content, -1); len(matches) > 0 {
		paragraphs := make([]string, 0, len(matches))
		for _, m := range matches {
			if clean := StripHTMLAndClean(m[1]); clean != "" {
				paragraphs = append(paragraphs, clean)
			}
		}
		return paragraphs
	}

	return splitPlainBlocks(content)
}

// ExtractRawParagraphBlocks is ExtractParagraphBlocks without tag
// stripping: the inner markup of each <p> is kept verbatim.
func ExtractRawParagraphBlocks(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	if matches := pTagRe.FindAllStringSubmatch(content, -1); len(matches) > 0 {
		paragraphs := make([]string, 0, len(matches))
		for _, m := range matches {
			if raw := strings.TrimSpace(m[1]); raw != "" {
				paragraphs = append(paragraphs, raw)
			}
		}
		return paragraphs
	}

	return splitPlainBlocks(content)
}

func splitPlainBlocks(content string) []string {
	var paragraphs []string
	for _, block := range blankSplit.Split(content, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if t := strings.TrimSpace(line); t != "" {
				lines = append(lines, t)
			}
		}
		switch {
		case len(lines) == 0:
			continue
		case len(lines) == 1:
			paragraphs = append(paragraphs, lines[0])
		default:
			paragraphs = append(paragraphs, lines...)
		}
	}
	return paragraphs
}

package textproc

import "strings"

// SentenceSpan is one sentence within a source string. Start and End are
// byte offsets into the source; End includes the whitespace that follows
// the terminator, so concatenating the spans of a string reconstructs it
// exactly (modulo a whitespace-only tail, which is dropped).
type SentenceSpan struct {
	Text  string
	Start int
	End   int
}

// ScanSentences splits text into sentence spans.
//
// A position is a sentence boundary when the character is '.', '!' or
// '?', is followed by at least one whitespace character, the whitespace
// is followed by further content, and the character is not a decimal
// point flanked by digits (so "12.99" never splits). Trailing text after
// the last boundary becomes a final sentence when non-blank.
func ScanSentences(text string) []SentenceSpan {
	var spans []SentenceSpan
	n := len(text)
	start := 0
	i := 0

	for i < n {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			if c == '.' && i > 0 && i+1 < n && isASCIIDigit(text[i-1]) && isASCIIDigit(text[i+1]) {
				i++
				continue
			}
			j := i + 1
			for j < n && isASCIISpace(text[j]) {
				j++
			}
			// Boundary only when whitespace follows and more content remains.
			if j > i+1 && j < n {
				spans = append(spans, SentenceSpan{Text: text[start:j], Start: start, End: j})
				start = j
				i = j
				continue
			}
		}
		i++
	}

	if start < n && strings.TrimSpace(text[start:]) != "" {
		spans = append(spans, SentenceSpan{Text: text[start:], Start: start, End: n})
	}
	return spans
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

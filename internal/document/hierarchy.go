package document

import "regexp"

var (
	depthChapterRe = regexp.MustCompile(`(?i)^\s*(chapter|part)\b`)
	depthSectionRe = regexp.MustCompile(`(?i)^\s*section\b`)
	depthDottedRe  = regexp.MustCompile(`^\s*\d+\.\d+`)
)

// titleLengthDelta is how much shorter/longer a title must be than its
// predecessor before we infer a shallower/deeper heading from length alone.
const titleLengthDelta = 20

const maxInferredDepth = 3

// EnrichHierarchy assigns Depth and ParentID to chapters in place. It
// only adds hierarchy fields; content is never modified.
//
// Depth comes from the title pattern when one matches ("Chapter"/"Part"
// → 1, "Section" → 2, dotted numerics like "1.1" → 3). Otherwise it is
// inferred relative to the previous chapter: a much shorter title
// implies a shallower heading, a much longer one a deeper heading, and
// anything in between inherits the predecessor's depth.
func EnrichHierarchy(chapters []Chapter) {
	for i := range chapters {
		chapters[i].Depth = classifyDepth(chapters[i].Title, previousDepth(chapters, i), previousTitle(chapters, i))
	}
	for i := range chapters {
		chapters[i].ParentID = resolveParent(chapters, i)
	}
}

func previousDepth(chapters []Chapter, i int) int {
	if i == 0 {
		return 0
	}
	return chapters[i-1].Depth
}

func previousTitle(chapters []Chapter, i int) string {
	if i == 0 {
		return ""
	}
	return chapters[i-1].Title
}

func classifyDepth(title string, prevDepth int, prevTitle string) int {
	switch {
	case depthChapterRe.MatchString(title):
		return 1
	case depthSectionRe.MatchString(title):
		return 2
	case depthDottedRe.MatchString(title):
		return 3
	}

	if prevDepth == 0 {
		return 1
	}

	switch {
	case len(title)+titleLengthDelta < len(prevTitle):
		if prevDepth > 1 {
			return prevDepth - 1
		}
		return 1
	case len(title) > len(prevTitle)+titleLengthDelta:
		if prevDepth < maxInferredDepth {
			return prevDepth + 1
		}
		return maxInferredDepth
	default:
		return prevDepth
	}
}

// resolveParent finds the nearest prior chapter with strictly smaller
// depth. Returns "" for top-level chapters.
func resolveParent(chapters []Chapter, i int) string {
	for j := i - 1; j >= 0; j-- {
		if chapters[j].Depth < chapters[i].Depth {
			return chapters[j].ID
		}
	}
	return ""
}

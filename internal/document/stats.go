package document

// Totals aggregates counts across chapters.
type Totals struct {
	Paragraphs int
	Sentences  int
	Words      int
	Chapters   int

	// Duration is the summed spoken duration in seconds.
	Duration float64
}

// ComputeTotals sums counts and durations across chapters.
func ComputeTotals(chapters []Chapter) Totals {
	t := Totals{Chapters: len(chapters)}
	for _, ch := range chapters {
		t.Paragraphs += len(ch.Paragraphs)
		for _, p := range ch.Paragraphs {
			t.Sentences += len(p.Sentences)
		}
		t.Words += ch.WordCount
		t.Duration += ch.EstimatedDuration
	}
	return t
}

// Complexity is a coarse diagnostic classification of document shape.
// It never gates processing.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Mean-depth thresholds separating the complexity classes.
const (
	moderateDepthThreshold = 1.5
	complexDepthThreshold  = 2.5
)

// ClassifyComplexity derives a complexity class from the mean chapter
// depth and the number of sub-chapters (depth > 1).
func ClassifyComplexity(chapters []Chapter) Complexity {
	if len(chapters) == 0 {
		return ComplexitySimple
	}

	var depthSum, subChapters int
	for _, ch := range chapters {
		d := ch.Depth
		if d < 1 {
			d = 1
		}
		depthSum += d
		if d > 1 {
			subChapters++
		}
	}
	meanDepth := float64(depthSum) / float64(len(chapters))

	switch {
	case meanDepth > complexDepthThreshold,
		meanDepth > moderateDepthThreshold && subChapters > 10:
		return ComplexityComplex
	case meanDepth > moderateDepthThreshold, subChapters > 5:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}

package document

import "testing"

func chapterWith(words, paragraphs, sentencesPerParagraph int, duration float64) Chapter {
	ch := Chapter{WordCount: words, EstimatedDuration: duration}
	for p := 0; p < paragraphs; p++ {
		para := Paragraph{Position: p}
		for s := 0; s < sentencesPerParagraph; s++ {
			para.Sentences = append(para.Sentences, Sentence{Text: "s", StartIndex: s, EndIndex: s + 1})
		}
		ch.Paragraphs = append(ch.Paragraphs, para)
	}
	return ch
}

func TestComputeTotals(t *testing.T) {
	chapters := []Chapter{
		chapterWith(100, 2, 3, 30),
		chapterWith(250, 4, 2, 75),
		chapterWith(0, 0, 0, 0), // placeholder chapter
	}
	totals := ComputeTotals(chapters)

	if totals.Chapters != 3 {
		t.Errorf("Chapters = %d, want 3", totals.Chapters)
	}
	if totals.Words != 350 {
		t.Errorf("Words = %d, want 350", totals.Words)
	}
	if totals.Paragraphs != 6 {
		t.Errorf("Paragraphs = %d, want 6", totals.Paragraphs)
	}
	if totals.Sentences != 14 {
		t.Errorf("Sentences = %d, want 14", totals.Sentences)
	}
	if totals.Duration != 105 {
		t.Errorf("Duration = %v, want 105", totals.Duration)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals != (Totals{}) {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

func TestClassifyComplexity(t *testing.T) {
	flat := make([]Chapter, 4)
	for i := range flat {
		flat[i].Depth = 1
	}
	if got := ClassifyComplexity(flat); got != ComplexitySimple {
		t.Errorf("flat chapters: got %s, want simple", got)
	}

	mixed := []Chapter{{Depth: 1}, {Depth: 2}, {Depth: 2}, {Depth: 2}}
	if got := ClassifyComplexity(mixed); got != ComplexityModerate {
		t.Errorf("mixed depth: got %s, want moderate", got)
	}

	deep := []Chapter{{Depth: 3}, {Depth: 3}, {Depth: 2}, {Depth: 3}}
	if got := ClassifyComplexity(deep); got != ComplexityComplex {
		t.Errorf("deep nesting: got %s, want complex", got)
	}

	if got := ClassifyComplexity(nil); got != ComplexitySimple {
		t.Errorf("no chapters: got %s, want simple", got)
	}
}

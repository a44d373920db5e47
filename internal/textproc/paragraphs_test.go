package textproc

import "testing"

func TestExtractParagraphBlocksHTML(t *testing.T) {
	in := `<html><body><p>First paragraph.</p><p class="x">Second &amp; more.</p><p>  </p></body></html>`
	got := ExtractParagraphBlocks(in)
	want := []string{"First paragraph.", "Second & more."}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractParagraphBlocksPlainText(t *testing.T) {
	in := "Single block one.\n\nSecond block."
	got := ExtractParagraphBlocks(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %#v", len(got), got)
	}
	if got[0] != "Single block one." || got[1] != "Second block." {
		t.Errorf("unexpected paragraphs: %#v", got)
	}
}

func TestExtractParagraphBlocksMultilineBlock(t *testing.T) {
	// A block containing several non-empty lines splits per line.
	in := "Line one\nLine two\nLine three\n\nTail block"
	got := ExtractParagraphBlocks(in)
	want := []string{"Line one", "Line two", "Line three", "Tail block"}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractParagraphBlocksEmpty(t *testing.T) {
	if got := ExtractParagraphBlocks("   \n\n  "); got != nil {
		t.Errorf("expected nil for blank input, got %#v", got)
	}
}

func TestExtractRawParagraphBlocksKeepsMarkup(t *testing.T) {
	in := `<html><body><p>Keep <em>this</em> markup.</p><p>And <b>this</b> too.</p></body></html>`
	got := ExtractRawParagraphBlocks(in)
	want := []string{"Keep <em>this</em> markup.", "And <b>this</b> too."}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

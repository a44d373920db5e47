package document

import "testing"

func TestEnrichHierarchyPatternDepths(t *testing.T) {
	chapters := []Chapter{
		{ID: "c1", Title: "Chapter 1: The Beginning"},
		{ID: "c2", Title: "Section 1: Early Days"},
		{ID: "c3", Title: "1.1 A Closer Look"},
		{ID: "c4", Title: "Part II"},
	}
	EnrichHierarchy(chapters)

	wantDepths := []int{1, 2, 3, 1}
	for i, want := range wantDepths {
		if chapters[i].Depth != want {
			t.Errorf("chapter %s: depth %d, want %d", chapters[i].ID, chapters[i].Depth, want)
		}
	}
}

func TestEnrichHierarchyParentResolution(t *testing.T) {
	chapters := []Chapter{
		{ID: "c1", Title: "Chapter 1"},
		{ID: "c2", Title: "Section 1"},
		{ID: "c3", Title: "1.1 Detail"},
		{ID: "c4", Title: "Section 2"},
		{ID: "c5", Title: "Chapter 2"},
	}
	EnrichHierarchy(chapters)

	wantParents := []string{"", "c1", "c2", "c1", ""}
	for i, want := range wantParents {
		if chapters[i].ParentID != want {
			t.Errorf("chapter %s: parent %q, want %q", chapters[i].ID, chapters[i].ParentID, want)
		}
	}
}

func TestEnrichHierarchyLengthInference(t *testing.T) {
	chapters := []Chapter{
		{ID: "c1", Title: "Introduction To Everything Important"},
		{ID: "c2", Title: "A much longer subsection title that clearly extends well past its predecessor"},
		{ID: "c3", Title: "Similar length title here hey"},
		{ID: "c4", Title: "End"},
	}
	EnrichHierarchy(chapters)

	if chapters[0].Depth != 1 {
		t.Errorf("first chapter defaults to depth 1, got %d", chapters[0].Depth)
	}
	if chapters[1].Depth != chapters[0].Depth+1 {
		t.Errorf("much longer title should deepen: got %d, want %d", chapters[1].Depth, chapters[0].Depth+1)
	}
	if chapters[2].Depth != chapters[1].Depth-1 {
		t.Errorf("much shorter title should shallow: got %d, want %d", chapters[2].Depth, chapters[1].Depth-1)
	}
	if chapters[3].Depth != 1 {
		t.Errorf("very short title should rise to depth 1, got %d", chapters[3].Depth)
	}
}

func TestEnrichHierarchyPreservesContent(t *testing.T) {
	chapters := []Chapter{{
		ID:    "c1",
		Title: "Chapter 1",
		Paragraphs: []Paragraph{
			{ID: "p1", RawText: "Text.", Position: 0},
		},
		WordCount: 1,
	}}
	EnrichHierarchy(chapters)

	if len(chapters[0].Paragraphs) != 1 || chapters[0].Paragraphs[0].RawText != "Text." {
		t.Error("enrichment modified chapter content")
	}
	if chapters[0].WordCount != 1 {
		t.Error("enrichment modified word count")
	}
}

package parser

import "testing"

func TestExtractHeadings(t *testing.T) {
	content := `# Title

Intro paragraph.

## First Section

Text.

## Second Section

### Nested

More text.
`
	headings := ExtractHeadings(content)
	if len(headings) != 4 {
		t.Fatalf("expected 4 headings, got %d: %v", len(headings), headings)
	}
	if headings[0].Level != 1 || headings[0].Text != "Title" {
		t.Errorf("first heading = %+v", headings[0])
	}
	if headings[3].Level != 3 || headings[3].Text != "Nested" {
		t.Errorf("last heading = %+v", headings[3])
	}
}

func TestAnalyzeBody(t *testing.T) {
	s := AnalyzeBody("# Title\n\n## Section A\n\nsome words here\n\n## Section B\n\nmore words\n")
	if s.SectionCount != 2 {
		t.Errorf("SectionCount = %d, want 2", s.SectionCount)
	}
	if s.WordCount == 0 {
		t.Error("WordCount should be nonzero")
	}

	// Only a title: still one section.
	s = AnalyzeBody("# Title\n\nprose under the title\n")
	if s.SectionCount != 1 {
		t.Errorf("title-only SectionCount = %d, want 1", s.SectionCount)
	}

	// Empty body.
	s = AnalyzeBody("")
	if s.WordCount != 0 || s.SectionCount != 0 {
		t.Errorf("empty body: %+v", s)
	}
}

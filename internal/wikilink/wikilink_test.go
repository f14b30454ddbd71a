package wikilink

import (
	"reflect"
	"testing"
)

func TestParseExact(t *testing.T) {
	tests := []struct {
		in          string
		wantTarget  string
		wantDisplay *string
		wantOK      bool
	}{
		{in: "[[fleeting/capture-habits]]", wantTarget: "fleeting/capture-habits", wantOK: true},
		{in: " [[fleeting/capture-habits]] ", wantTarget: "fleeting/capture-habits", wantOK: true},
		{
			in:         "[[permanent/zettelkasten|the method]]",
			wantTarget: "permanent/zettelkasten",
			wantDisplay: func() *string {
				s := "the method"
				return &s
			}(),
			wantOK: true,
		},
		{in: "[[]]", wantOK: false},
		{in: "fleeting/capture-habits", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target, display, ok := ParseExact(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if target != tt.wantTarget {
				t.Fatalf("target=%q, want %q", target, tt.wantTarget)
			}
			if (display == nil) != (tt.wantDisplay == nil) {
				t.Fatalf("display nil=%v, want nil=%v", display == nil, tt.wantDisplay == nil)
			}
			if display != nil && *display != *tt.wantDisplay {
				t.Fatalf("display=%q, want %q", *display, *tt.wantDisplay)
			}
		})
	}
}

func TestFindAllInLine(t *testing.T) {
	line := "See [[note-a]] and [[note-b|B]] for context."
	matches := FindAllInLine(line)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Target != "note-a" || matches[1].Target != "note-b" {
		t.Fatalf("targets = %q, %q", matches[0].Target, matches[1].Target)
	}
	if matches[1].DisplayText == nil || *matches[1].DisplayText != "B" {
		t.Fatal("expected display text B on second match")
	}
}

func TestExtractTargets(t *testing.T) {
	content := `# Heading

Links to [[note-a]] and [[note-b]].
Mentions [[note-a]] again.

` + "```" + `
[[inside-fence]] must not match
` + "```" + `

Inline ` + "`[[inside-code]]`" + ` must not match either, but [[note-c]] does.
`
	got := ExtractTargets(content)
	want := []string{"note-a", "note-b", "note-c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractTargets = %v, want %v", got, want)
	}
}

func TestExtractTargetsEmpty(t *testing.T) {
	if got := ExtractTargets("no links here"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

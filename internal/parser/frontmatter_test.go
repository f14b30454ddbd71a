package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/corvid-tools/magpie/internal/note"
)

const sampleNote = `---
type: fleeting
created: 2026-03-04 14:30
status: draft
tags: [note-taking, zettelkasten]
visibility: private
---
# Capture Habits

Linking to [[permanent/atomic-notes]] and [[fleeting/daily-review|the review]].
`

func TestParse(t *testing.T) {
	n, err := Parse(sampleNote, "Fleeting/capture-habits.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if n.ID != "Fleeting/capture-habits" {
		t.Errorf("ID = %q", n.ID)
	}
	if n.Type != note.TypeFleeting {
		t.Errorf("Type = %q", n.Type)
	}
	if n.Status != note.StatusDraft {
		t.Errorf("Status = %q", n.Status)
	}
	want := time.Date(2026, time.March, 4, 14, 30, 0, 0, time.UTC)
	if !n.Created.Equal(want) {
		t.Errorf("Created = %v, want %v", n.Created, want)
	}
	if len(n.Tags) != 2 || n.Tags[0] != "note-taking" {
		t.Errorf("Tags = %v", n.Tags)
	}
	if len(n.LinksOut) != 2 || n.LinksOut[0] != "permanent/atomic-notes" || n.LinksOut[1] != "fleeting/daily-review" {
		t.Errorf("LinksOut = %v", n.LinksOut)
	}
	if n.Visibility != note.VisibilityPrivate {
		t.Errorf("Visibility = %q", n.Visibility)
	}
}

func TestParseDefaults(t *testing.T) {
	n, err := Parse("---\n---\nJust a body.\n", "Inbox/quick.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Type != note.TypeInbox {
		t.Errorf("default type = %q, want inbox", n.Type)
	}
	if n.Status != note.StatusInbox {
		t.Errorf("default status = %q, want inbox", n.Status)
	}
	if n.Visibility != note.VisibilityPrivate {
		t.Errorf("default visibility = %q, want private", n.Visibility)
	}
	if n.Tags == nil || len(n.Tags) != 0 {
		t.Errorf("default tags = %v, want empty slice", n.Tags)
	}
	if !n.Created.IsZero() {
		t.Errorf("default created = %v, want zero", n.Created)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "# Just markdown\n\nNo YAML here.\n"},
		{"unterminated", "---\ntype: fleeting\nstatus: draft\n\n# Body without closing fence\n"},
		{"not a mapping", "---\n- one\n- two\n---\nBody.\n"},
		{"scalar document", "---\njust a string\n---\nBody.\n"},
		{"invalid yaml", "---\ntype: [unclosed\n---\nBody.\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content, "Inbox/bad.md")
			if !errors.Is(err, ErrMalformedFrontmatter) {
				t.Fatalf("expected ErrMalformedFrontmatter, got %v", err)
			}
		})
	}
}

func TestParseUnknownEnums(t *testing.T) {
	if _, err := Parse("---\ntype: journal\n---\nBody.\n", "Inbox/x.md"); err == nil {
		t.Fatal("expected unknown type to fail")
	}
	if _, err := Parse("---\nstatus: pending\n---\nBody.\n", "Inbox/x.md"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParsePreservesExtraFields(t *testing.T) {
	content := "---\ntype: fleeting\nstatus: draft\naliases: [ch]\nsource: https://example.com\n---\nBody.\n"
	n, err := Parse(content, "Fleeting/x.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Extra["source"] != "https://example.com" {
		t.Errorf("Extra[source] = %v", n.Extra["source"])
	}
	if _, ok := n.Extra["aliases"]; !ok {
		t.Error("expected aliases to be preserved in Extra")
	}
}

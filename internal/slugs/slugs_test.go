package slugs

import "testing"

func TestTagSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Machine Learning", "machine-learning"},
		{"machine-learning", "machine-learning"},
		{"  Note_Taking  ", "note-taking"},
		{"C++", "c"},
		{"knowledge/management", "knowledge-management"},
		{"UPPER", "upper"},
		{"already--dashed", "already-dashed"},
		{"trailing-", "trailing"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := TagSlug(tc.in); got != tc.want {
			t.Errorf("TagSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNoteID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My First Note", "my-first-note"},
		{"Inbox/Quick Capture.md", "inbox/quick-capture"},
		{"fleeting/already-slugged", "fleeting/already-slugged"},
	}
	for _, tc := range cases {
		if got := NoteID(tc.in); got != tc.want {
			t.Errorf("NoteID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

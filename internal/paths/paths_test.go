package paths

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilePathToNoteID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Fleeting/capture-habits.md", "Fleeting/capture-habits"},
		{"./Inbox/idea.md", "Inbox/idea"},
		{"/Permanent/zettelkasten.md", "Permanent/zettelkasten"},
		{"Inbox//double.md", "Inbox/double"},
		{"no-extension", "no-extension"},
	}
	for _, tc := range cases {
		if got := FilePathToNoteID(tc.in); got != tc.want {
			t.Errorf("FilePathToNoteID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNoteIDToFilePath(t *testing.T) {
	if got := NoteIDToFilePath("Fleeting/capture-habits"); got != "Fleeting/capture-habits.md" {
		t.Fatalf("NoteIDToFilePath = %q", got)
	}
	// Already has extension: no doubling.
	if got := NoteIDToFilePath("Fleeting/capture-habits.md"); got != "Fleeting/capture-habits.md" {
		t.Fatalf("NoteIDToFilePath with extension = %q", got)
	}
}

func TestValidateWithinVault(t *testing.T) {
	vault := t.TempDir()

	if err := ValidateWithinVault(vault, filepath.Join(vault, "Inbox", "idea.md")); err != nil {
		t.Fatalf("expected inside path to validate: %v", err)
	}
	if err := ValidateWithinVault(vault, vault); err != nil {
		t.Fatalf("vault root itself should validate: %v", err)
	}

	err := ValidateWithinVault(vault, filepath.Join(vault, "..", "escape.md"))
	if !errors.Is(err, ErrPathOutsideVault) {
		t.Fatalf("expected ErrPathOutsideVault, got %v", err)
	}
}

package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-tools/magpie/internal/paths"
	"github.com/corvid-tools/magpie/internal/wikilink"
)

var (
	// ErrNoteNotFound means no note matched the reference.
	ErrNoteNotFound = errors.New("note not found")

	// ErrAmbiguousRef means a bare name matched more than one note.
	ErrAmbiguousRef = errors.New("ambiguous note reference")
)

// Resolve maps a user-supplied note reference to a vault-relative path.
// Accepted forms, tried in order:
//   - a wikilink literal ("[[Fleeting/capture-habits]]"), unwrapped first
//   - a vault-relative path ("Fleeting/capture-habits.md")
//   - a note ID ("Fleeting/capture-habits")
//   - a bare note name ("capture-habits"), matched against all notes
//
// A bare name matching more than one note is ambiguous and errors with the
// candidates listed.
func (s *Store) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(filepath.ToSlash(ref))
	if ref == "" {
		return "", fmt.Errorf("empty note reference")
	}
	if target, _, ok := wikilink.ParseExact(ref); ok {
		ref = target
	}

	for _, candidate := range []string{ref, paths.NoteIDToFilePath(ref)} {
		abs := filepath.Join(s.Root, filepath.FromSlash(candidate))
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	// Bare name: search the vault.
	results, err := s.Scan()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(r.RelPath), ".md")
		if base == ref {
			matches = append(matches, r.RelPath)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNoteNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguousRef, ref, strings.Join(matches, ", "))
	}
}

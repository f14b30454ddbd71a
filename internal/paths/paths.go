// Package paths provides canonical helpers for converting between
// vault-relative markdown file paths (e.g. "Fleeting/capture-habits.md")
// and note IDs (e.g. "Fleeting/capture-habits" without the extension).
//
// It also centralizes the vault containment check so that scanning, CLI
// operations, and lifecycle moves stay consistent.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathOutsideVault indicates a path escapes the vault root.
var ErrPathOutsideVault = errors.New("path is outside the vault")

// normalizeRelPath normalizes a vault-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func normalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// FilePathToNoteID converts a vault-relative file path to a note ID.
func FilePathToNoteID(filePath string) string {
	id := normalizeRelPath(filePath)
	return strings.TrimSuffix(id, ".md")
}

// NoteIDToFilePath converts a note ID to a vault-relative markdown file path.
func NoteIDToFilePath(noteID string) string {
	id := normalizeRelPath(noteID)
	id = strings.TrimSuffix(id, ".md")
	return id + ".md"
}

// ValidateWithinVault verifies that path resolves to a location inside
// vaultPath. Returns ErrPathOutsideVault when it does not.
func ValidateWithinVault(vaultPath, path string) error {
	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		return fmt.Errorf("resolve vault path: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	rel, err := filepath.Rel(absVault, absPath)
	if err != nil {
		return ErrPathOutsideVault
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathOutsideVault
	}
	return nil
}

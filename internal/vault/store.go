// Package vault implements the filesystem-backed note store.
//
// All mutation goes through this package: notes are updated fully in
// memory, then written atomically (temp file + rename), so a concurrent
// reader never observes half-written frontmatter. This is the single seam
// tests mock instead of scattering file access through the codebase.
package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corvid-tools/magpie/internal/atomicfile"
	"github.com/corvid-tools/magpie/internal/config"
	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/parser"
	"github.com/corvid-tools/magpie/internal/paths"
)

// Store is a handle to a vault's notes on disk.
type Store struct {
	Root string
	cfg  *config.VaultConfig
}

// NewStore opens a vault rooted at root. A missing or unreadable root is
// fatal: it is the one startup error that aborts a whole run.
func NewStore(root string, cfg *config.VaultConfig) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("vault root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", root)
	}
	if cfg == nil {
		cfg = &config.VaultConfig{}
	}
	return &Store{Root: root, cfg: cfg}, nil
}

// Config returns the vault-level configuration.
func (s *Store) Config() *config.VaultConfig {
	return s.cfg
}

// DirFor maps a lifecycle stage to its vault-relative directory.
func (s *Store) DirFor(stage note.Stage) string {
	switch stage {
	case note.StageInbox:
		return s.cfg.GetInboxDir()
	case note.StageFleeting:
		return s.cfg.GetFleetingDir()
	case note.StagePermanent:
		return s.cfg.GetPermanentDir()
	case note.StageArchived:
		return s.cfg.GetArchiveDir()
	}
	return ""
}

// Read loads and parses a single note by vault-relative path. The returned
// hash captures the file content as read; pass it to Write so concurrent
// edits are detected instead of overwritten.
func (s *Store) Read(relPath string) (*note.Note, string, error) {
	absPath := filepath.Join(s.Root, filepath.FromSlash(relPath))
	if err := paths.ValidateWithinVault(s.Root, absPath); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("read note: %w", err)
	}

	n, err := parser.Parse(string(data), relPath)
	if err != nil {
		return nil, "", err
	}
	return n, atomicfile.Hash(data), nil
}

// Write serializes a note and writes it atomically to its path. readHash
// must be the hash returned by Read (or empty for a new file); a mismatch
// aborts with atomicfile.ErrConflict and leaves the file untouched.
func (s *Store) Write(n *note.Note, readHash string) error {
	data, err := parser.Serialize(n)
	if err != nil {
		return err
	}

	absPath := filepath.Join(s.Root, filepath.FromSlash(n.Path))
	if err := paths.ValidateWithinVault(s.Root, absPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create note directory: %w", err)
	}
	return atomicfile.WriteFileIfUnchanged(absPath, data, readHash, 0)
}

// Move applies a lifecycle transition: validates it, updates the note's
// type/status, writes the note into the target stage directory, and removes
// the old file. The note's ID and Path are updated in place.
func (s *Store) Move(n *note.Note, to note.Stage, readHash string) error {
	if err := note.Transition(n, to); err != nil {
		return err
	}

	oldAbs := filepath.Join(s.Root, filepath.FromSlash(n.Path))
	newRel := filepath.ToSlash(filepath.Join(s.DirFor(to), filepath.Base(n.Path)))
	if newRel == n.Path {
		return s.Write(n, readHash)
	}

	newAbs := filepath.Join(s.Root, filepath.FromSlash(newRel))
	if _, err := os.Stat(newAbs); err == nil {
		return fmt.Errorf("target %s already exists", newRel)
	}

	oldPath := n.Path
	n.Path = newRel
	n.ID = paths.FilePathToNoteID(newRel)

	// New file first, then remove the old one. A crash in between leaves a
	// duplicate rather than a lost note.
	if err := s.Write(n, ""); err != nil {
		n.Path = oldPath
		n.ID = paths.FilePathToNoteID(oldPath)
		return err
	}
	if err := os.Remove(oldAbs); err != nil {
		return fmt.Errorf("remove old note file: %w", err)
	}
	return nil
}

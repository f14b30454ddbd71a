// Package atomicfile provides atomic file writes for vault mutations.
package atomicfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConflict indicates the target file changed on disk after it was read
// and before the write could land. The mutation is aborted; nothing is
// overwritten.
var ErrConflict = errors.New("file changed since it was read")

// Hash returns the content hash used for conflict detection and embedding
// cache invalidation.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// WriteFile writes data to path atomically (best-effort cross-platform).
//
// It writes to a temporary file in the same directory and renames it into
// place. This avoids torn writes if the process crashes mid-write.
//
// perm is used for the temp file. If perm is 0, WriteFile will try to
// preserve the existing file's mode (if it exists) and otherwise falls back
// to 0644.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode()
		} else {
			perm = 0o644
		}
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Best-effort; some platforms/filesystems may not support chmod here.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// On Windows, renaming over an existing file fails. Remove first (not atomic).
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}

// WriteFileIfUnchanged writes data atomically, but only if the file's
// current content still hashes to readHash (the hash recorded when the
// caller read it). An empty readHash asserts the file must not yet exist.
//
// Returns ErrConflict when the precondition fails. The check and the rename
// are not a single atomic unit; this guards against the common lost-update
// case, not against adversarial interleaving.
func WriteFileIfUnchanged(path string, data []byte, readHash string, perm os.FileMode) error {
	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if Hash(current) != readHash {
			return fmt.Errorf("%s: %w", path, ErrConflict)
		}
	case os.IsNotExist(err):
		if readHash != "" {
			return fmt.Errorf("%s: %w", path, ErrConflict)
		}
	default:
		return fmt.Errorf("read current content: %w", err)
	}

	return WriteFile(path, data, perm)
}

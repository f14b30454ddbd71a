//go:build !windows

package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Lock is a held cache lock.
type Lock struct {
	file *os.File
}

// AcquireLock takes an exclusive non-blocking lock on the vault's cache
// directory. It prevents two batch runs from rewriting embeddings for the
// same vault at once. Returns ErrIndexLocked when already held.
func AcquireLock(vaultPath string) (*Lock, error) {
	dbDir := filepath.Join(vaultPath, DotDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", DotDir, err)
	}

	lockPath := filepath.Join(dbDir, "cache.lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open cache lock: %w", err)
	}

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		lockFile.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}

	return &Lock{file: lockFile}, nil
}

// Release releases the lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

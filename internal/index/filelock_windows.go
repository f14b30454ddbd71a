//go:build windows

package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// Lock is a held cache lock.
type Lock struct {
	file *os.File
}

const lockRegionSize uint32 = 1

// AcquireLock takes an exclusive non-blocking lock on the vault's cache
// directory. Returns ErrIndexLocked when already held.
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

	var overlapped windows.Overlapped
	err = windows.LockFileEx(
		windows.Handle(lockFile.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		lockRegionSize,
		0,
		&overlapped,
	)
	if err != nil {
		lockFile.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) || errors.Is(err, windows.ERROR_SHARING_VIOLATION) {
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
	var overlapped windows.Overlapped
	unlockErr := windows.UnlockFileEx(
		windows.Handle(l.file.Fd()),
		0,
		lockRegionSize,
		0,
		&overlapped,
	)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

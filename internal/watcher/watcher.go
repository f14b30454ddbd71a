// Package watcher keeps the embedding cache in step with a live vault.
//
// It watches the vault directory for markdown changes and, after a debounce
// window, re-embeds changed notes (when a backend is configured) or drops
// their stale cache entries. Deleted notes are evicted immediately. Running
// `mag watch` during an editing session means `mag links` and
// `mag process-inbox` start from a warm cache.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/atomicfile"
	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/parser"
	"github.com/corvid-tools/magpie/internal/paths"
)

// Watcher monitors a vault directory and maintains the embedding cache.
type Watcher struct {
	vaultPath string
	cache     *index.Database
	embedder  ai.Embedder

	debounceDelay time.Duration
	debug         bool

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onUpdate func(relPath string, err error)
}

// Config holds configuration options for the Watcher.
type Config struct {
	VaultPath string
	Cache     *index.Database

	// Embedder re-embeds changed notes when set. Without one, changed
	// notes are just evicted and recomputed on the next batch run.
	Embedder ai.Embedder

	DebounceDelay time.Duration // Default: 500ms
	Debug         bool
	OnUpdate      func(relPath string, err error) // Optional callback
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("embedding cache is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		vaultPath:     cfg.VaultPath,
		cache:         cfg.Cache,
		embedder:      cfg.Embedder,
		debounceDelay: debounce,
		debug:         cfg.Debug,
		pending:       make(map[string]time.Time),
		onUpdate:      cfg.OnUpdate,
	}, nil
}

// Start begins watching the vault. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.vaultPath); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	// Notes deleted while no watcher was running still have cache entries;
	// sweep them before processing live events.
	if pruned, err := w.pruneStale(); err != nil {
		w.logDebug("failed to prune stale entries: %v", err)
	} else if pruned > 0 {
		w.logDebug("pruned %d stale cache entries", pruned)
	}

	w.logDebug("watching vault: %s", w.vaultPath)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logDebug("watcher error: %v", err)
		}
	}
}

// RefreshNote brings one note's cache entry up to date. With an embedder it
// recomputes the vector for the current body; without one it evicts the
// entry so the next batch run recomputes it.
func (w *Watcher) RefreshNote(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.vaultPath, path)
	}
	if !strings.HasSuffix(path, ".md") || w.shouldIgnore(path) {
		return nil
	}

	relPath, err := filepath.Rel(w.vaultPath, path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}
	n, err := parser.Parse(string(content), filepath.ToSlash(relPath))
	if err != nil {
		return fmt.Errorf("failed to parse note: %w", err)
	}

	if w.embedder == nil {
		return w.cache.DeleteEmbedding(n.ID)
	}

	bodyHash := atomicfile.Hash([]byte(n.Body))
	if _, ok, err := w.cache.GetEmbedding(n.ID, bodyHash); err != nil {
		return err
	} else if ok {
		return nil // already current
	}

	vec, err := w.embedder.Embed(ctx, n.Body)
	if err != nil {
		return fmt.Errorf("failed to embed note: %w", err)
	}
	return w.cache.PutEmbedding(n.ID, bodyHash, vec)
}

// pruneStale drops cache entries whose notes no longer exist on disk.
func (w *Watcher) pruneStale() (int, error) {
	live := make(map[string]struct{})
	err := filepath.Walk(w.vaultPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".md") || w.shouldIgnore(path) {
			return nil
		}
		rel, relErr := filepath.Rel(w.vaultPath, path)
		if relErr != nil {
			return nil
		}
		live[paths.FilePathToNoteID(filepath.ToSlash(rel))] = struct{}{}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return w.cache.PruneMissing(live)
}

// EvictNote removes a deleted note's cache entry.
func (w *Watcher) EvictNote(path string) error {
	relPath, err := filepath.Rel(w.vaultPath, path)
	if err != nil {
		return err
	}
	return w.cache.DeleteEmbedding(paths.FilePathToNoteID(relPath))
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".md") {
		// But watch new directories
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				_ = w.addWatchRecursive(path)
			}
		}
		return
	}

	if w.shouldIgnore(path) {
		return
	}

	w.logDebug("event: %s %s", event.Op, path)

	switch {
	case event.Op&fsnotify.Write != 0, event.Op&fsnotify.Create != 0:
		w.scheduleRefresh(path)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		if err := w.EvictNote(path); err != nil {
			w.logDebug("failed to evict: %v", err)
		}
	}
}

// scheduleRefresh adds a file to the pending queue with debouncing. Editors
// fire several events per save; the note is only refreshed once the writes
// settle.
func (w *Watcher) scheduleRefresh(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

func (w *Watcher) processPending(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	ready := make([]string, 0)

	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		err := w.RefreshNote(ctx, path)
		if w.onUpdate != nil {
			rel, relErr := filepath.Rel(w.vaultPath, path)
			if relErr != nil {
				rel = path
			}
			w.onUpdate(filepath.ToSlash(rel), err)
		}
		if err != nil {
			w.logDebug("failed to refresh %s: %v", path, err)
		} else {
			w.logDebug("refreshed: %s", path)
		}
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			if w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logDebug("failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

// shouldIgnore returns true if the path should be ignored.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.vaultPath, path)
	if err != nil {
		return false
	}

	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == index.DotDir || part == ".git" || part == ".obsidian" || part == ".trash" {
			return true
		}
	}
	return false
}

// shouldIgnoreDir returns true if the directory should not be watched.
func (w *Watcher) shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	return base == index.DotDir || base == ".git" || base == ".obsidian" || base == ".trash"
}

func (w *Watcher) logDebug(format string, args ...interface{}) {
	if w.debug {
		fmt.Fprintf(os.Stderr, "[magpie-watch] "+format+"\n", args...)
	}
}

// Package index maintains the SQLite embedding cache.
//
// Embeddings are expensive to compute (one backend call per note), so they
// are cached keyed by a content hash. The invalidation contract: a cached
// vector is served only while the note body hashes the same; any edit makes
// the entry a miss. Stale embeddings after edits are a correctness bug, not
// just a performance one.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DotDir is the vault-local directory holding the cache database.
const DotDir = ".magpie"

// ErrIndexLocked indicates another process holds the cache lock.
var ErrIndexLocked = errors.New("embedding cache is locked by another process")

// Database is the SQLite cache handle.
type Database struct {
	db *sql.DB
}

// Open opens or creates the embedding cache under <vault>/.magpie/cache.db.
func Open(vaultPath string) (*Database, error) {
	dbDir := filepath.Join(vaultPath, DotDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", DotDir, err)
	}

	dbPath := filepath.Join(dbDir, "cache.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

const schemaVersion = 1

func (d *Database) initialize() error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			note_id TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			dims INTEGER NOT NULL,
			vector BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}

	_, err := d.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO NOTHING`,
		fmt.Sprintf("%d", schemaVersion),
	)
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// Stats returns the number of cached embeddings.
func (d *Database) Stats() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return count, nil
}

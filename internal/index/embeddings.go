package index

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"
)

// GetEmbedding returns the cached vector for a note, but only while the
// stored content hash matches. A hash mismatch is a cache miss: the caller
// recomputes and overwrites.
func (d *Database) GetEmbedding(noteID, contentHash string) ([]float32, bool, error) {
	var storedHash string
	var dims int
	var blob []byte
	err := d.db.QueryRow(
		`SELECT content_hash, dims, vector FROM embeddings WHERE note_id = ?`,
		noteID,
	).Scan(&storedHash, &dims, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query embedding: %w", err)
	}
	if storedHash != contentHash {
		return nil, false, nil
	}

	vec, err := decodeVector(blob, dims)
	if err != nil {
		return nil, false, fmt.Errorf("decode embedding for %s: %w", noteID, err)
	}
	return vec, true, nil
}

// PutEmbedding stores (or replaces) the vector for a note.
func (d *Database) PutEmbedding(noteID, contentHash string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("refusing to cache empty vector for %s", noteID)
	}
	_, err := d.db.Exec(
		`INSERT INTO embeddings (note_id, content_hash, dims, vector, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(note_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			dims = excluded.dims,
			vector = excluded.vector,
			updated_at = excluded.updated_at`,
		noteID, contentHash, len(vec), encodeVector(vec), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}

// DeleteEmbedding removes a note's cached vector.
func (d *Database) DeleteEmbedding(noteID string) error {
	if _, err := d.db.Exec(`DELETE FROM embeddings WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("delete embedding: %w", err)
	}
	return nil
}

// PruneMissing drops cache entries whose notes no longer exist in the vault.
func (d *Database) PruneMissing(liveIDs map[string]struct{}) (int, error) {
	rows, err := d.db.Query(`SELECT note_id FROM embeddings`)
	if err != nil {
		return 0, fmt.Errorf("list embeddings: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		if _, ok := liveIDs[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(stale) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(stale)), ", ")
	args := make([]any, len(stale))
	for i, id := range stale {
		args[i] = id
	}
	if _, err := d.db.Exec(
		`DELETE FROM embeddings WHERE note_id IN (`+placeholders+`)`, args...,
	); err != nil {
		return 0, fmt.Errorf("prune embeddings: %w", err)
	}
	return len(stale), nil
}

// Vectors are stored as little-endian float32 blobs.

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte, dims int) ([]float32, error) {
	if len(blob) != 4*dims {
		return nil, fmt.Errorf("vector blob is %d bytes, want %d", len(blob), 4*dims)
	}
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}

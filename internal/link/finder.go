// Package link suggests connections between notes using embedding
// similarity.
package link

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/atomicfile"
	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/note"
)

// DefaultThreshold is the minimum cosine similarity for a suggestion.
const DefaultThreshold = 0.65

// Candidate is a suggested link target with its similarity score.
type Candidate struct {
	Note  *note.Note
	Score float64
}

// Finder computes similarity between notes. Embeddings are cached per note
// keyed by a content hash; edited notes miss the cache and are re-embedded.
type Finder struct {
	embedder ai.Embedder
	cache    *index.Database // may be nil (no caching)
}

// NewFinder creates a Finder. cache may be nil to disable caching.
func NewFinder(embedder ai.Embedder, cache *index.Database) *Finder {
	return &Finder{embedder: embedder, cache: cache}
}

// EmbeddingFor returns the embedding for a note's body, serving from the
// cache when the body is unchanged.
func (f *Finder) EmbeddingFor(ctx context.Context, n *note.Note) ([]float32, error) {
	hash := atomicfile.Hash([]byte(n.Body))

	if f.cache != nil {
		if vec, ok, err := f.cache.GetEmbedding(n.ID, hash); err != nil {
			return nil, err
		} else if ok {
			return vec, nil
		}
	}

	vec, err := f.embedder.Embed(ctx, n.Body)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.PutEmbedding(n.ID, hash, vec); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

// FindCandidates returns notes from corpus semantically similar to target,
// at or above threshold, sorted by score descending. Ties are broken by the
// more recently modified note first, then by ID for determinism.
//
// The target itself and notes already in target.LinksOut are excluded.
// Corpus notes whose embedding cannot be computed (backend unavailable) are
// skipped, not fatal; only a target embedding failure aborts.
func (f *Finder) FindCandidates(ctx context.Context, target *note.Note, corpus []*note.Note, threshold float64) ([]Candidate, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	targetVec, err := f.EmbeddingFor(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", target.ID, err)
	}

	var out []Candidate
	for _, other := range corpus {
		if other.ID == target.ID {
			continue
		}
		if target.HasLink(other.ID) {
			continue
		}

		vec, err := f.EmbeddingFor(ctx, other)
		if err != nil {
			if errors.Is(err, ai.ErrBackendUnavailable) {
				continue
			}
			return nil, fmt.Errorf("embed %s: %w", other.ID, err)
		}

		score := Cosine(targetVec, vec)
		if score >= threshold {
			out = append(out, Candidate{Note: other, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		mi, mj := out[i].Note.Modified, out[j].Note.Modified
		if !mi.Equal(mj) {
			return mi.After(mj)
		}
		return out[i].Note.ID < out[j].Note.ID
	})
	return out, nil
}

// Cosine computes cosine similarity between two vectors. Mismatched or
// zero-magnitude vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

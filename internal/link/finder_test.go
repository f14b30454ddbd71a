package link

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/index"
	"github.com/corvid-tools/magpie/internal/note"
)

// mapEmbedder returns canned vectors keyed by text, counting calls.
type mapEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (m *mapEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	return nil, ai.ErrBackendUnavailable
}

func fleetingNote(id, body string, modified time.Time) *note.Note {
	return &note.Note{
		ID:       id,
		Type:     note.TypeFleeting,
		Status:   note.StatusDraft,
		Body:     body,
		Modified: modified,
	}
}

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"mismatched dims", []float32{1, 0}, []float32{1}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tc := range cases {
		if got := Cosine(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: Cosine = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFindCandidates(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"target body":    {1, 0, 0},
		"very close":     {0.99, 0.1, 0},
		"somewhat close": {0.8, 0.6, 0},
		"unrelated":      {0, 0, 1},
	}}
	f := NewFinder(emb, nil)

	target := fleetingNote("fleeting/target", "target body", time.Time{})
	corpus := []*note.Note{
		target, // self must be excluded
		fleetingNote("permanent/close", "very close", time.Time{}),
		fleetingNote("permanent/medium", "somewhat close", time.Time{}),
		fleetingNote("permanent/far", "unrelated", time.Time{}),
	}

	got, err := f.FindCandidates(context.Background(), target, corpus, 0.65)
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Note.ID != "permanent/close" || got[1].Note.ID != "permanent/medium" {
		t.Fatalf("wrong order: %s, %s", got[0].Note.ID, got[1].Note.ID)
	}
	if got[0].Score < got[1].Score {
		t.Fatal("candidates not sorted by score descending")
	}
}

func TestFindCandidatesExcludesExistingLinks(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {1, 0},
	}}
	f := NewFinder(emb, nil)

	target := fleetingNote("fleeting/t", "a", time.Time{})
	target.LinksOut = []string{"permanent/known"}
	known := fleetingNote("permanent/known", "b", time.Time{})

	got, err := f.FindCandidates(context.Background(), target, []*note.Note{known}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("already-linked note suggested: %v", got)
	}
}

func TestFindCandidatesTieBreakByModified(t *testing.T) {
	vec := []float32{1, 0}
	emb := &mapEmbedder{vectors: map[string][]float32{
		"t": vec, "same-1": vec, "same-2": vec,
	}}
	f := NewFinder(emb, nil)

	older := fleetingNote("permanent/older", "same-1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := fleetingNote("permanent/newer", "same-2", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	target := fleetingNote("fleeting/t", "t", time.Time{})

	got, err := f.FindCandidates(context.Background(), target, []*note.Note{older, newer}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Note.ID != "permanent/newer" {
		t.Fatalf("expected newer note first, got %v", got)
	}
}

func TestFindCandidatesSkipsUnembeddableNotes(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"t":  {1, 0},
		"ok": {1, 0},
		// "missing" body has no vector: backend unavailable for that note.
	}}
	f := NewFinder(emb, nil)

	target := fleetingNote("fleeting/t", "t", time.Time{})
	corpus := []*note.Note{
		fleetingNote("permanent/ok", "ok", time.Time{}),
		fleetingNote("permanent/missing", "missing", time.Time{}),
	}

	got, err := f.FindCandidates(context.Background(), target, corpus, 0.5)
	if err != nil {
		t.Fatalf("unembeddable corpus note should not be fatal: %v", err)
	}
	if len(got) != 1 || got[0].Note.ID != "permanent/ok" {
		t.Fatalf("got %v", got)
	}
}

func TestFindCandidatesTargetEmbedFailureIsFatal(t *testing.T) {
	f := NewFinder(&mapEmbedder{vectors: map[string][]float32{}}, nil)
	target := fleetingNote("fleeting/t", "no vector", time.Time{})
	if _, err := f.FindCandidates(context.Background(), target, nil, 0.5); err == nil {
		t.Fatal("expected error when target cannot be embedded")
	}
}

func TestEmbeddingCacheHit(t *testing.T) {
	db, err := index.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	emb := &mapEmbedder{vectors: map[string][]float32{"body": {1, 2, 3}}}
	f := NewFinder(emb, db)
	n := fleetingNote("fleeting/cached", "body", time.Time{})

	if _, err := f.EmbeddingFor(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	if _, err := f.EmbeddingFor(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	if emb.calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", emb.calls)
	}

	// Edit invalidates.
	n.Body = "edited body"
	emb.vectors["edited body"] = []float32{4, 5, 6}
	vec, err := f.EmbeddingFor(context.Background(), n)
	if err != nil {
		t.Fatal(err)
	}
	if emb.calls != 2 {
		t.Fatalf("expected recompute after edit, calls = %d", emb.calls)
	}
	if vec[0] != 4 {
		t.Fatalf("stale vector served after edit: %v", vec)
	}
}

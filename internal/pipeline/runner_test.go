package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/config"
	"github.com/corvid-tools/magpie/internal/link"
	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/testutil"
	"github.com/corvid-tools/magpie/internal/vault"
)

type fakeGenerator struct {
	reply string
	calls int
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.reply, nil
}

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	for key, vec := range e.vectors {
		if strings.Contains(text, key) {
			return vec, nil
		}
	}
	return []float32{0, 0, 1}, nil
}

func buildRunner(t *testing.T, tv *testutil.TestVault, gen ai.Generator, emb ai.Embedder) *Runner {
	t.Helper()
	store, err := vault.NewStore(tv.Path, &config.VaultConfig{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	r := &Runner{Store: store, Generator: gen, AddLinks: true}
	if emb != nil {
		r.Finder = link.NewFinder(emb, nil)
	}
	return r
}

func TestProcessTagsAndScoresInboxNotes(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/capture.md",
			"Some rough thoughts about spaced repetition and memory.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		Build()

	gen := &fakeGenerator{reply: "memory, spaced-repetition"}
	r := buildRunner(t, tv, gen, nil)

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Processed != 1 || summary.Errored != 0 || summary.Skipped != 0 {
		t.Fatalf("counts = %d/%d/%d, want 1/0/0",
			summary.Processed, summary.Skipped, summary.Errored)
	}
	out := summary.Outcomes[0]
	if len(out.AddedTags) != 2 {
		t.Fatalf("AddedTags = %v, want 2 tags", out.AddedTags)
	}
	if out.Score <= 0 {
		t.Errorf("Score = %v, want > 0", out.Score)
	}
	tv.AssertFileContains("Inbox/capture.md", "spaced-repetition")
}

func TestProcessSkipsNotesOutsideSelectedStages(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/a.md", "Inbox note.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		WithNote("Permanent/b.md", "Settled note.\n",
			"type", "permanent", "status", "promoted", "created", "2026-01-01").
		Build()

	gen := &fakeGenerator{reply: ""}
	r := buildRunner(t, tv, gen, nil)

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("Processed = %d, want 1", summary.Processed)
	}
	if summary.Outcomes[0].RelPath != "Inbox/a.md" {
		t.Errorf("processed %s, want Inbox/a.md", summary.Outcomes[0].RelPath)
	}
}

func TestProcessIsolatesMalformedNotes(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/good.md", "Fine.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		WithFile("Inbox/bad.md", "---\ntype: inbox\nno closing fence").
		Build()

	gen := &fakeGenerator{reply: ""}
	r := buildRunner(t, tv, gen, nil)

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Processed != 1 || summary.Skipped != 1 {
		t.Fatalf("counts = %d processed / %d skipped, want 1/1", summary.Processed, summary.Skipped)
	}
	for _, out := range summary.Outcomes {
		if out.RelPath == "Inbox/bad.md" && out.Err == nil {
			t.Errorf("malformed note reported without error")
		}
	}
}

func TestProcessBackendDownDegradesToWarning(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/offline.md", "A note processed without a backend.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		Build()

	r := buildRunner(t, tv, ai.Noop{}, ai.Noop{})

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Processed != 1 || summary.Errored != 0 {
		t.Fatalf("counts = %d processed / %d errored, want 1/0",
			summary.Processed, summary.Errored)
	}
	out := summary.Outcomes[0]
	if len(out.AddedTags) != 0 {
		t.Errorf("AddedTags = %v, want none", out.AddedTags)
	}
	if len(out.Warnings) == 0 {
		t.Errorf("expected warnings about unavailable backend")
	}
	if out.Score <= 0 {
		t.Errorf("Score = %v, want > 0 even with backend down", out.Score)
	}
}

func TestProcessDryRunWritesNothing(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/keep.md", "Body text.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		Build()

	gen := &fakeGenerator{reply: "newtag"}
	r := buildRunner(t, tv, gen, nil)
	r.DryRun = true

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := summary.Outcomes[0].AddedTags; len(got) != 1 {
		t.Fatalf("AddedTags = %v, want [newtag]", got)
	}
	tv.AssertFileNotContains("Inbox/keep.md", "newtag")
}

func TestProcessAddsLinkSuggestionsToRelatedSection(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/target.md", "All about graph theory basics.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		WithNote("Permanent/graphs.md", "Thorough notes on graph theory.\n",
			"type", "permanent", "status", "promoted", "created", "2026-01-01").
		Build()

	emb := &fakeEmbedder{vectors: map[string][]float32{
		"graph theory": {1, 0, 0},
	}}
	r := buildRunner(t, tv, &fakeGenerator{}, emb)

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	out := summary.Outcomes[0]
	if len(out.SuggestedLinks) != 1 || out.SuggestedLinks[0] != "Permanent/graphs" {
		t.Fatalf("SuggestedLinks = %v, want [Permanent/graphs]", out.SuggestedLinks)
	}
	tv.AssertFileContains("Inbox/target.md", "## Related")
	tv.AssertFileContains("Inbox/target.md", "[[Permanent/graphs]]")

	// Reprocessing must not duplicate the suggestion.
	summary, err = r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process (second run): %v", err)
	}
	if got := summary.Outcomes[0].SuggestedLinks; len(got) != 0 {
		t.Errorf("second run SuggestedLinks = %v, want none", got)
	}
	content := tv.ReadFile("Inbox/target.md")
	if strings.Count(content, "[[Permanent/graphs]]") != 1 {
		t.Errorf("link duplicated on reprocess:\n%s", content)
	}
}

// Exercises concurrent workers mutating their own notes while all of them
// read the shared corpus; run under -race this catches any sharing between
// a worker's target and another worker's corpus view.
func TestProcessConcurrentWorkersSeeStableCorpus(t *testing.T) {
	tv := testutil.NewTestVault(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		tv.WithNote("Inbox/"+name+".md", "Ideas about the same shared topic, note "+name+".\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20")
	}
	tv.Build()

	// Every note embeds to the same vector, so every note suggests every
	// other note and every worker reads the whole corpus.
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	r := buildRunner(t, tv, &fakeGenerator{reply: "shared-topic"}, emb)
	r.Concurrency = 8

	summary, err := r.Process(context.Background(), note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Processed != 8 || summary.Errored != 0 {
		t.Fatalf("counts = %d processed / %d errored, want 8/0", summary.Processed, summary.Errored)
	}
	for _, out := range summary.Outcomes {
		if len(out.SuggestedLinks) != 7 {
			t.Errorf("%s: SuggestedLinks = %d, want 7 (all other notes)", out.RelPath, len(out.SuggestedLinks))
		}
	}
	tv.AssertFileContains("Inbox/a.md", "## Related")
}

func TestProcessCancelledContextStopsSubmitting(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Inbox/a.md", "One.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		WithNote("Inbox/b.md", "Two.\n",
			"type", "inbox", "status", "inbox", "created", "2026-08-20").
		Build()

	r := buildRunner(t, tv, &fakeGenerator{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Process(ctx, note.StageInbox)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Processed != 0 {
		t.Errorf("Processed = %d, want 0 with pre-cancelled context", summary.Processed)
	}
}

func TestWeeklyReviewGroupsFleetingNotes(t *testing.T) {
	longBody := strings.Repeat("substantive words about a well developed idea ", 120) +
		"\n\n## Context\ntext\n\n## Sources\ntext\n\n[[Permanent/one]] [[Permanent/two]] [[Permanent/three]] [[Permanent/four]]\n"
	tv := testutil.NewTestVault(t).
		WithNote("Fleeting/ripe.md", longBody,
			"type", "fleeting", "status", "draft", "created", "2026-08-01",
			"tags", "[a, b, c]").
		WithNote("Fleeting/thin.md", "A stub.\n",
			"type", "fleeting", "status", "draft", "created", "2026-08-01").
		WithNote("Permanent/one.md", "Done.\n",
			"type", "permanent", "status", "promoted", "created", "2026-01-01").
		Build()

	r := buildRunner(t, tv, nil, nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	rep, err := r.WeeklyReview(context.Background(), now)
	if err != nil {
		t.Fatalf("WeeklyReview: %v", err)
	}
	if len(rep.Promote) != 1 || rep.Promote[0].NoteID != "Fleeting/ripe" {
		t.Fatalf("Promote = %+v, want Fleeting/ripe", rep.Promote)
	}
	if len(rep.Improve) != 1 || rep.Improve[0].NoteID != "Fleeting/thin" {
		t.Fatalf("Improve = %+v, want Fleeting/thin", rep.Improve)
	}
}

func TestWeeklyReviewReportsBrokenLinks(t *testing.T) {
	tv := testutil.NewTestVault(t).
		WithNote("Fleeting/linked.md", "See [[nowhere/nothing]].\n",
			"type", "fleeting", "status", "draft", "created", "2026-08-01").
		Build()

	r := buildRunner(t, tv, nil, nil)

	rep, err := r.WeeklyReview(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("WeeklyReview: %v", err)
	}
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w.Message, "nowhere/nothing") {
			found = true
		}
	}
	if !found {
		t.Errorf("no broken-link warning in %+v", rep.Warnings)
	}
}

// Package pipeline orchestrates batch processing of vault notes: AI
// tagging, quality scoring, link suggestion, and promotion recommendation.
//
// Notes are processed independently by a bounded worker pool. Per-note
// failures are isolated; one malformed note or an unreachable backend never
// aborts the rest of the batch. All mutation is computed fully in memory
// and written atomically per file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corvid-tools/magpie/internal/ai"
	"github.com/corvid-tools/magpie/internal/atomicfile"
	"github.com/corvid-tools/magpie/internal/link"
	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/promote"
	"github.com/corvid-tools/magpie/internal/score"
	"github.com/corvid-tools/magpie/internal/vault"
)

// Runner executes batch operations against a vault.
type Runner struct {
	Store      *vault.Store
	Generator  ai.Generator
	Finder     *link.Finder
	Weights    score.Weights
	Thresholds promote.Thresholds

	// Concurrency bounds the worker pool; <=0 means 4.
	Concurrency int

	// AITimeout bounds each backend call; <=0 means 30s.
	AITimeout time.Duration

	// MaxTags caps tag suggestions per note; <=0 means 8.
	MaxTags int

	// LinkThreshold is the minimum similarity for link suggestions;
	// <=0 means link.DefaultThreshold.
	LinkThreshold float64

	// AddLinks appends suggested links to a Related section in the body.
	AddLinks bool

	// DryRun computes everything but writes nothing.
	DryRun bool
}

// Outcome is the result of processing a single note.
type Outcome struct {
	RelPath        string                 `json:"path"`
	NoteID         string                 `json:"note_id,omitempty"`
	Score          float64                `json:"score"`
	AddedTags      []string               `json:"added_tags,omitempty"`
	SuggestedLinks []string               `json:"suggested_links,omitempty"`
	Recommendation promote.Recommendation `json:"recommendation"`
	Warnings       []string               `json:"warnings,omitempty"`
	Err            error                  `json:"-"`
	ErrMessage     string                 `json:"error,omitempty"`
}

// Summary aggregates a batch run. The CLI always reports these counts.
type Summary struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Errored   int       `json:"errored"`
	Outcomes  []Outcome `json:"outcomes"`
}

func (r *Runner) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return 4
}

func (r *Runner) aiTimeout() time.Duration {
	if r.AITimeout > 0 {
		return r.AITimeout
	}
	return 30 * time.Second
}

func (r *Runner) maxTags() int {
	if r.MaxTags > 0 {
		return r.MaxTags
	}
	return 8
}

// Process scans the vault and runs the enhancement pipeline over every note
// in the given lifecycle stages. Unparsable files in those directories are
// counted as skipped; the batch continues.
//
// Cancelling ctx stops submitting new notes; in-flight backend calls finish
// under their per-call timeout, and completed notes are still reported.
func (r *Runner) Process(ctx context.Context, stages ...note.Stage) (*Summary, error) {
	results, err := r.Store.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}

	wanted := make(map[note.Stage]struct{}, len(stages))
	for _, s := range stages {
		wanted[s] = struct{}{}
	}

	// Workers mutate their own note in place while every worker reads the
	// corpus, so the corpus must be a snapshot, not the scanned pointers.
	corpus := snapshotNotes(vault.Notes(results))
	summary := &Summary{}

	var targets []vault.ScanResult
	for _, res := range results {
		if res.Err != nil {
			// Unparsable files cannot be assigned a stage; report them
			// whenever they sit under a selected stage directory, so a
			// malformed inbox note shows up in a process-inbox run.
			if r.underSelectedDir(res.RelPath, wanted) {
				summary.Skipped++
				summary.Outcomes = append(summary.Outcomes, Outcome{
					RelPath:    res.RelPath,
					Err:        res.Err,
					ErrMessage: res.Err.Error(),
				})
			}
			continue
		}
		if _, ok := wanted[note.StageOf(res.Note)]; ok {
			targets = append(targets, res)
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.concurrency())

	for _, target := range targets {
		if ctx.Err() != nil {
			break // cancelled: stop submitting, let in-flight work finish
		}
		target := target
		g.Go(func() error {
			outcome := r.processOne(ctx, target, corpus)
			mu.Lock()
			summary.Outcomes = append(summary.Outcomes, outcome)
			if outcome.Err != nil {
				summary.Errored++
			} else {
				summary.Processed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Worker completion order is nondeterministic; sort before anyone
	// renders the results.
	sort.Slice(summary.Outcomes, func(i, j int) bool {
		return summary.Outcomes[i].RelPath < summary.Outcomes[j].RelPath
	})
	return summary, nil
}

// snapshotNotes copies notes for concurrent read-only use. The link finder
// reads ID, Body, Modified, and LinksOut of corpus notes, so those are
// copied deeply enough that later mutation of the originals is invisible.
func snapshotNotes(notes []*note.Note) []*note.Note {
	out := make([]*note.Note, len(notes))
	for i, n := range notes {
		c := *n
		c.Tags = append([]string(nil), n.Tags...)
		c.LinksOut = append([]string(nil), n.LinksOut...)
		out[i] = &c
	}
	return out
}

func (r *Runner) underSelectedDir(relPath string, wanted map[note.Stage]struct{}) bool {
	for stage := range wanted {
		dir := r.Store.DirFor(stage)
		if dir != "" && strings.HasPrefix(relPath, dir+"/") {
			return true
		}
	}
	return false
}

// processOne runs tagging, scoring, and link suggestion for one note, then
// writes the updated file if anything changed.
func (r *Runner) processOne(ctx context.Context, target vault.ScanResult, corpus []*note.Note) Outcome {
	n := target.Note
	outcome := Outcome{RelPath: target.RelPath, NoteID: n.ID}
	changed := false

	// AI tagging is best-effort: an unreachable backend degrades to no
	// suggestions and a warning.
	added, err := r.suggestTags(ctx, n)
	if err != nil {
		if errors.Is(err, ai.ErrBackendUnavailable) {
			outcome.Warnings = append(outcome.Warnings, "tagging unavailable: backend unreachable")
		} else {
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("tagging failed: %v", err))
		}
	} else if len(added) > 0 {
		n.Tags = append(n.Tags, added...)
		outcome.AddedTags = added
		changed = true
	}

	// Link suggestions need the embedding backend; degrade the same way.
	if r.Finder != nil {
		suggestions, err := r.suggestLinks(ctx, n, corpus)
		if err != nil {
			if errors.Is(err, ai.ErrBackendUnavailable) {
				outcome.Warnings = append(outcome.Warnings, "link finding unavailable: backend unreachable")
			} else {
				outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("link finding failed: %v", err))
			}
		} else if len(suggestions) > 0 {
			outcome.SuggestedLinks = suggestions
			if r.AddLinks {
				appendRelated(n, suggestions)
				changed = true
			}
		}
	}

	// Scoring is pure and always runs, backend or not.
	outcome.Score = score.Quality(n, r.Weights)
	outcome.Recommendation = promote.Recommend(n, outcome.Score, time.Now().UTC(), r.Thresholds)

	if changed && !r.DryRun {
		if err := r.Store.Write(n, target.Hash); err != nil {
			if errors.Is(err, atomicfile.ErrConflict) {
				outcome.Err = fmt.Errorf("write conflict: %w", err)
			} else {
				outcome.Err = err
			}
			outcome.ErrMessage = outcome.Err.Error()
		}
	}
	return outcome
}

func (r *Runner) suggestTags(ctx context.Context, n *note.Note) ([]string, error) {
	if r.Generator == nil {
		return nil, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, r.aiTimeout())
	defer cancel()
	return ai.SuggestTags(callCtx, r.Generator, n.Body, n.Tags, r.maxTags())
}

func (r *Runner) suggestLinks(ctx context.Context, n *note.Note, corpus []*note.Note) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.aiTimeout())
	defer cancel()

	candidates, err := r.Finder.FindCandidates(callCtx, n, corpus, r.LinkThreshold)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Note.ID)
	}
	return ids, nil
}

// appendRelated adds suggested links under a Related heading. Targets
// already linked from the body never reach this point (the finder excludes
// them), so reprocessing an unchanged note adds nothing.
func appendRelated(n *note.Note, ids []string) {
	var b strings.Builder
	b.WriteString(n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		b.WriteString("\n")
	}
	if !strings.Contains(n.Body, "## Related") {
		b.WriteString("\n## Related\n")
	}
	for _, id := range ids {
		b.WriteString("- [[" + id + "]]\n")
	}
	n.Body = b.String()
	n.LinksOut = append(n.LinksOut, ids...)
}

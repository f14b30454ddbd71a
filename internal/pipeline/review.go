package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/promote"
	"github.com/corvid-tools/magpie/internal/report"
	"github.com/corvid-tools/magpie/internal/score"
	"github.com/corvid-tools/magpie/internal/vault"
)

// WeeklyReview scores every fleeting note, recommends an action for each,
// and assembles the review report. It never mutates the vault and never
// touches the AI backend, so it works fully offline.
func (r *Runner) WeeklyReview(ctx context.Context, now time.Time) (*report.Report, error) {
	results, err := r.Store.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}

	var (
		recs     []promote.Recommendation
		warnings []report.Warning
	)
	for _, res := range results {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if res.Err != nil {
			warnings = append(warnings, report.Warning{
				NoteID:  res.RelPath,
				Message: fmt.Sprintf("unreadable: %v", res.Err),
			})
			continue
		}
		if note.StageOf(res.Note) != note.StageFleeting {
			continue
		}
		s := score.Quality(res.Note, r.Weights)
		recs = append(recs, promote.Recommend(res.Note, s, now, r.Thresholds))
	}

	for _, broken := range vault.BrokenLinks(vault.Notes(results)) {
		warnings = append(warnings, report.Warning{
			NoteID:  broken.SourceID,
			Message: fmt.Sprintf("broken link: [[%s]]", broken.Target),
		})
	}

	return report.Build(recs, warnings, now), nil
}

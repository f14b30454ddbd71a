// Package report builds the weekly review document from promotion
// recommendations.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corvid-tools/magpie/internal/dates"
	"github.com/corvid-tools/magpie/internal/promote"
)

// Warning is a data-quality finding surfaced in the report (e.g. a broken
// wiki-link). Warnings never fail a report.
type Warning struct {
	NoteID  string `json:"note_id"`
	Message string `json:"message"`
}

// Report is the aggregated weekly review.
type Report struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Promote     []promote.Recommendation `json:"promote"`
	Develop     []promote.Recommendation `json:"develop"`
	Improve     []promote.Recommendation `json:"improve"`
	Warnings    []Warning                `json:"warnings,omitempty"`
}

// Total returns the number of actionable entries.
func (r *Report) Total() int {
	return len(r.Promote) + len(r.Develop) + len(r.Improve)
}

// Build groups recommendations by action and sorts each group by score
// descending, ties broken by note ID. Given the same recommendations the
// result is identical across runs regardless of input order. no_action
// entries are dropped.
func Build(recs []promote.Recommendation, warnings []Warning, now time.Time) *Report {
	r := &Report{GeneratedAt: now}

	for _, rec := range recs {
		switch rec.Action {
		case promote.ActionPromote:
			r.Promote = append(r.Promote, rec)
		case promote.ActionDevelop:
			r.Develop = append(r.Develop, rec)
		case promote.ActionImprove:
			r.Improve = append(r.Improve, rec)
		}
	}

	for _, group := range [][]promote.Recommendation{r.Promote, r.Develop, r.Improve} {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].NoteID < group[j].NoteID
		})
	}

	r.Warnings = append(r.Warnings, warnings...)
	sort.SliceStable(r.Warnings, func(i, j int) bool {
		if r.Warnings[i].NoteID != r.Warnings[j].NoteID {
			return r.Warnings[i].NoteID < r.Warnings[j].NoteID
		}
		return r.Warnings[i].Message < r.Warnings[j].Message
	})

	return r
}

// Render produces the markdown review document: notes grouped under headed
// sections, each entry a checklist item with score and rationale. An empty
// vault renders a valid "nothing to review" document.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Review — %s\n\n", dates.FormatDate(r.GeneratedAt))

	if r.Total() == 0 {
		b.WriteString("Nothing to review this week.\n")
	} else {
		renderSection(&b, "Ready to Promote", r.Promote)
		renderSection(&b, "Needs Development", r.Develop)
		renderSection(&b, "Needs Improvement", r.Improve)
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Data Quality Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- `%s`: %s\n", w.NoteID, w.Message)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderSection(b *strings.Builder, title string, recs []promote.Recommendation) {
	fmt.Fprintf(b, "## %s (%d)\n\n", title, len(recs))
	if len(recs) == 0 {
		b.WriteString("_none_\n\n")
		return
	}
	for _, rec := range recs {
		fmt.Fprintf(b, "- [ ] **%s** — score %.2f — %s\n", rec.NoteID, rec.Score, rec.Rationale)
	}
	b.WriteString("\n")
}

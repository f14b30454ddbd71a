// Package promote decides whether a note is ready to leave the fleeting
// stage.
//
// The decision is a pure function over already-computed signals; it does no
// I/O and never mutates the note. Rationale strings name the exact
// thresholds met or missed: explainability is a functional requirement.
package promote

import (
	"fmt"
	"strings"
	"time"

	"github.com/corvid-tools/magpie/internal/note"
)

// Action is the recommended next step for a note.
type Action string

const (
	ActionNoAction Action = "no_action"
	ActionPromote  Action = "promote"
	ActionDevelop  Action = "develop_further"
	ActionImprove  Action = "needs_improvement"
)

// Documented default thresholds. Tests assert against these exact values.
const (
	// DefaultPromoteScore: quality must exceed this to promote.
	DefaultPromoteScore = 0.7

	// DefaultPromoteAgeDays: the note must have matured longer than this.
	DefaultPromoteAgeDays = 7

	// DefaultPromoteLinks: the note needs at least this many outgoing links.
	DefaultPromoteLinks = 3

	// DefaultDevelopScore: quality above this (but short of promotion)
	// means the note is worth developing further.
	DefaultDevelopScore = 0.4
)

// Thresholds parameterizes the decision. Zero values fall back to defaults.
type Thresholds struct {
	PromoteScore   float64
	PromoteAgeDays int
	PromoteLinks   int
	DevelopScore   float64
}

// DefaultThresholds returns the documented defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PromoteScore:   DefaultPromoteScore,
		PromoteAgeDays: DefaultPromoteAgeDays,
		PromoteLinks:   DefaultPromoteLinks,
		DevelopScore:   DefaultDevelopScore,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.PromoteScore <= 0 {
		t.PromoteScore = d.PromoteScore
	}
	if t.PromoteAgeDays <= 0 {
		t.PromoteAgeDays = d.PromoteAgeDays
	}
	if t.PromoteLinks <= 0 {
		t.PromoteLinks = d.PromoteLinks
	}
	if t.DevelopScore <= 0 {
		t.DevelopScore = d.DevelopScore
	}
	return t
}

// Recommendation is the outcome of a promotion decision.
type Recommendation struct {
	NoteID    string  `json:"note_id"`
	Path      string  `json:"path"`
	Action    Action  `json:"action"`
	Score     float64 `json:"score"`
	AgeDays   int     `json:"age_days"`
	LinkCount int     `json:"link_count"`
	Rationale string  `json:"rationale"`
}

// Recommend evaluates a note against the thresholds. qualityScore is the
// note's quality score, computed by the caller.
func Recommend(n *note.Note, qualityScore float64, now time.Time, th Thresholds) Recommendation {
	th = th.withDefaults()

	rec := Recommendation{
		NoteID:    n.ID,
		Path:      n.Path,
		Score:     qualityScore,
		AgeDays:   n.AgeDays(now),
		LinkCount: len(n.LinksOut),
	}

	if n.Type != note.TypeFleeting {
		rec.Action = ActionNoAction
		rec.Rationale = fmt.Sprintf("not a candidate: only fleeting notes are promoted (type is %s)", n.Type)
		return rec
	}

	scoreMet := qualityScore > th.PromoteScore
	ageMet := rec.AgeDays > th.PromoteAgeDays
	linksMet := rec.LinkCount >= th.PromoteLinks

	var met, missed []string
	describe := func(ok bool, s string) {
		if ok {
			met = append(met, s)
		} else {
			missed = append(missed, s)
		}
	}
	describe(scoreMet, fmt.Sprintf("quality %.2f vs threshold %.2f", qualityScore, th.PromoteScore))
	describe(ageMet, fmt.Sprintf("age %dd vs threshold %dd", rec.AgeDays, th.PromoteAgeDays))
	describe(linksMet, fmt.Sprintf("links %d vs minimum %d", rec.LinkCount, th.PromoteLinks))

	switch {
	case scoreMet && ageMet && linksMet:
		rec.Action = ActionPromote
		rec.Rationale = "ready to promote: " + strings.Join(met, ", ")
	case qualityScore > th.DevelopScore:
		rec.Action = ActionDevelop
		rec.Rationale = "develop further, not met: " + strings.Join(missed, ", ")
	default:
		rec.Action = ActionImprove
		rec.Rationale = fmt.Sprintf("needs improvement: quality %.2f at or below %.2f", qualityScore, th.DevelopScore)
	}
	return rec
}

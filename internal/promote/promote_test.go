package promote

import (
	"strings"
	"testing"
	"time"

	"github.com/corvid-tools/magpie/internal/note"
)

var now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func fleeting(created time.Time, links int) *note.Note {
	n := &note.Note{
		ID:      "Fleeting/test",
		Path:    "Fleeting/test.md",
		Type:    note.TypeFleeting,
		Status:  note.StatusDraft,
		Created: created,
		Body:    "body",
	}
	for i := 0; i < links; i++ {
		n.LinksOut = append(n.LinksOut, "permanent/x")
	}
	return n
}

func daysAgo(d int) time.Time { return now.AddDate(0, 0, -d) }

func TestRecommendPromote(t *testing.T) {
	// 10 days old, quality 0.82, 4 outgoing links.
	rec := Recommend(fleeting(daysAgo(10), 4), 0.82, now, DefaultThresholds())
	if rec.Action != ActionPromote {
		t.Fatalf("action = %s, want promote (rationale: %s)", rec.Action, rec.Rationale)
	}
	if !strings.Contains(rec.Rationale, "0.70") {
		t.Errorf("rationale should name the score threshold: %q", rec.Rationale)
	}
}

func TestRecommendTooYoung(t *testing.T) {
	// 2 days old, quality 0.9, 5 links: age threshold not met.
	rec := Recommend(fleeting(daysAgo(2), 5), 0.9, now, DefaultThresholds())
	if rec.Action != ActionDevelop {
		t.Fatalf("action = %s, want develop_further", rec.Action)
	}
	if !strings.Contains(rec.Rationale, "age") {
		t.Errorf("rationale must mention age: %q", rec.Rationale)
	}
}

func TestRecommendTooFewLinks(t *testing.T) {
	rec := Recommend(fleeting(daysAgo(10), 2), 0.82, now, DefaultThresholds())
	if rec.Action != ActionDevelop {
		t.Fatalf("action = %s, want develop_further", rec.Action)
	}
	if !strings.Contains(rec.Rationale, "links") {
		t.Errorf("rationale must mention links: %q", rec.Rationale)
	}
}

func TestRecommendNeedsImprovement(t *testing.T) {
	rec := Recommend(fleeting(daysAgo(10), 0), 0.3, now, DefaultThresholds())
	if rec.Action != ActionImprove {
		t.Fatalf("action = %s, want needs_improvement", rec.Action)
	}
	if !strings.Contains(rec.Rationale, "0.40") {
		t.Errorf("rationale should name the develop threshold: %q", rec.Rationale)
	}
}

func TestRecommendBoundaryValues(t *testing.T) {
	// Exactly at thresholds: strictly-greater comparisons, so not promoted.
	rec := Recommend(fleeting(daysAgo(7), 3), 0.7, now, DefaultThresholds())
	if rec.Action == ActionPromote {
		t.Fatal("exact threshold values must not promote")
	}
	// Just past them: promoted. Links use >=, matching "more than 2".
	rec = Recommend(fleeting(daysAgo(8), 3), 0.71, now, DefaultThresholds())
	if rec.Action != ActionPromote {
		t.Fatalf("action = %s, want promote (rationale: %s)", rec.Action, rec.Rationale)
	}
}

func TestRecommendNonFleeting(t *testing.T) {
	n := fleeting(daysAgo(30), 10)
	n.Type = note.TypePermanent
	rec := Recommend(n, 0.95, now, DefaultThresholds())
	if rec.Action != ActionNoAction {
		t.Fatalf("action = %s, want no_action", rec.Action)
	}
	if !strings.Contains(rec.Rationale, "permanent") {
		t.Errorf("rationale should name the type: %q", rec.Rationale)
	}
}

func TestCustomThresholds(t *testing.T) {
	th := Thresholds{PromoteScore: 0.5, PromoteAgeDays: 1, PromoteLinks: 1, DevelopScore: 0.2}
	rec := Recommend(fleeting(daysAgo(2), 1), 0.6, now, th)
	if rec.Action != ActionPromote {
		t.Fatalf("action = %s, want promote with relaxed thresholds", rec.Action)
	}
}

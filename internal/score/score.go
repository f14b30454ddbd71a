// Package score computes quality scores for notes.
//
// The score is a weighted sum of four independently computable signals,
// each in [0,1]. Scoring is deterministic and does no I/O, so the same
// note always scores the same.
package score

import (
	"strings"

	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/parser"
)

// Weights controls the relative contribution of each signal. Weights are
// normalized before use, so they need not sum to exactly 1.0.
type Weights struct {
	Length    float64
	Links     float64
	Tags      float64
	Structure float64
}

// DefaultWeights are the documented defaults: 30% length, 30% links,
// 20% tags, 20% structure.
var DefaultWeights = Weights{
	Length:    0.30,
	Links:     0.30,
	Tags:      0.20,
	Structure: 0.20,
}

// Signal caps and bands, documented so tests can assert exact values.
const (
	// WordCountCap is where the length signal saturates. Longer notes gain
	// nothing past this point.
	WordCountCap = 800

	// LinkCountCap is where the link signal saturates.
	LinkCountCap = 5

	// TagBandLow..TagBandHigh is the ideal tag count range (full credit).
	TagBandLow  = 3
	TagBandHigh = 8

	// TagOverload is the tag count past which the signal floors.
	TagOverload = 15

	// SectionCap is where the structure signal saturates.
	SectionCap = 2
)

// Quality scores a note in [0,1]. An empty body scores 0 outright: there is
// nothing worth promoting, whatever the metadata says.
func Quality(n *note.Note, w Weights) float64 {
	if strings.TrimSpace(n.Body) == "" {
		return 0.0
	}

	total := w.Length + w.Links + w.Tags + w.Structure
	if total <= 0 {
		w = DefaultWeights
		total = w.Length + w.Links + w.Tags + w.Structure
	}

	structure := parser.AnalyzeBody(n.Body)

	s := w.Length*lengthSignal(structure.WordCount) +
		w.Links*linkSignal(len(n.LinksOut)) +
		w.Tags*tagSignal(len(n.Tags)) +
		w.Structure*structureSignal(structure)
	s /= total

	return clamp01(s)
}

// lengthSignal grows linearly with word count and saturates at WordCountCap.
func lengthSignal(words int) float64 {
	if words <= 0 {
		return 0.0
	}
	if words >= WordCountCap {
		return 1.0
	}
	return float64(words) / float64(WordCountCap)
}

// linkSignal rewards outgoing links, saturating at LinkCountCap.
func linkSignal(links int) float64 {
	if links <= 0 {
		return 0.0
	}
	if links >= LinkCountCap {
		return 1.0
	}
	return float64(links) / float64(LinkCountCap)
}

// tagSignal rewards a healthy tag count: full credit inside
// [TagBandLow, TagBandHigh], partial credit on the way up, decaying credit
// for over-tagged notes, floored at 0.25 past TagOverload.
func tagSignal(tags int) float64 {
	switch {
	case tags <= 0:
		return 0.0
	case tags < TagBandLow:
		return float64(tags) / float64(TagBandLow)
	case tags <= TagBandHigh:
		return 1.0
	case tags <= TagOverload:
		// Linear decay from 1.0 at TagBandHigh down to 0.5 at TagOverload.
		span := float64(TagOverload - TagBandHigh)
		return 1.0 - 0.5*float64(tags-TagBandHigh)/span
	default:
		return 0.25
	}
}

// structureSignal rewards sectioned notes. Unstructured prose still gets a
// small baseline since the body is known to be non-empty.
func structureSignal(s parser.Structure) float64 {
	if s.SectionCount <= 0 {
		return 0.25
	}
	if s.SectionCount >= SectionCap {
		return 1.0
	}
	return float64(s.SectionCount) / float64(SectionCap)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}

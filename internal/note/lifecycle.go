package note

import "fmt"

// Stage is a note's position in the automated lifecycle. It is derived from
// the note's type and status, not stored directly.
type Stage string

const (
	StageInbox     Stage = "inbox"
	StageFleeting  Stage = "fleeting"
	StagePermanent Stage = "permanent"
	StageArchived  Stage = "archived"
)

// transitions lists the allowed automated stage transitions. Permanent and
// archived are terminal: content edits remain possible, but no automated
// transition leaves them. Nothing ever re-enters the inbox.
var transitions = map[Stage][]Stage{
	StageInbox:    {StageFleeting, StageArchived},
	StageFleeting: {StagePermanent, StageArchived},
}

// CanTransition reports whether the automated lifecycle allows from -> to.
func CanTransition(from, to Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StageOf derives the lifecycle stage from a note's type and status.
// Archived status wins over type; literature and MOC notes are treated as
// permanent for lifecycle purposes (they are never promotion candidates).
func StageOf(n *Note) Stage {
	if n.Status == StatusArchived {
		return StageArchived
	}
	switch n.Type {
	case TypeInbox:
		return StageInbox
	case TypeFleeting:
		return StageFleeting
	default:
		return StagePermanent
	}
}

// Transition validates and applies a stage transition, updating the note's
// type and status in place. The caller is responsible for moving the file.
func Transition(n *Note, to Stage) error {
	from := StageOf(n)
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot transition note %s from %s to %s", n.ID, from, to)
	}
	switch to {
	case StageFleeting:
		n.Type = TypeFleeting
		n.Status = StatusDraft
	case StagePermanent:
		n.Type = TypePermanent
		n.Status = StatusPromoted
	case StageArchived:
		n.Status = StatusArchived
	}
	return nil
}

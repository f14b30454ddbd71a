// Package note defines the core note model and lifecycle rules.
package note

import (
	"fmt"
	"time"
)

// Type classifies a note by its role in the vault.
type Type string

const (
	TypeInbox      Type = "inbox"
	TypeFleeting   Type = "fleeting"
	TypePermanent  Type = "permanent"
	TypeLiterature Type = "literature"
	TypeMOC        Type = "moc"
)

// ParseType parses a type string from frontmatter.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeInbox, TypeFleeting, TypePermanent, TypeLiterature, TypeMOC:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown note type: %q", s)
}

// Status tracks where a note sits in its editorial lifecycle.
type Status string

const (
	StatusInbox     Status = "inbox"
	StatusDraft     Status = "draft"
	StatusPromoted  Status = "promoted"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ParseStatus parses a status string from frontmatter.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInbox, StatusDraft, StatusPromoted, StatusPublished, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown note status: %q", s)
}

// Visibility controls who a note is intended for. It is passthrough metadata
// as far as the pipeline is concerned, but a known field for round-tripping.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
	VisibilityTeam    Visibility = "team"
	VisibilityPublic  Visibility = "public"
)

// Note is a parsed markdown note.
//
// ID is the vault-relative path without the .md extension and is unique
// across the vault. Extra holds frontmatter fields the model does not know
// about; they survive a parse/serialize round trip unchanged.
type Note struct {
	ID         string
	Path       string // vault-relative file path
	Type       Type
	Status     Status
	Created    time.Time
	Modified   time.Time // zero when not set in frontmatter
	Tags       []string
	LinksOut   []string // wiki-link targets found in the body, in order of first appearance
	Visibility Visibility
	Extra      map[string]interface{}
	Body       string
}

// HasModified reports whether the note carries an explicit modified timestamp.
func (n *Note) HasModified() bool {
	return !n.Modified.IsZero()
}

// AgeDays returns the note's age in whole days at the given instant.
func (n *Note) AgeDays(now time.Time) int {
	if n.Created.IsZero() || now.Before(n.Created) {
		return 0
	}
	return int(now.Sub(n.Created).Hours() / 24)
}

// HasLink reports whether the note already links to the given note ID.
func (n *Note) HasLink(id string) bool {
	for _, l := range n.LinksOut {
		if l == id {
			return true
		}
	}
	return false
}

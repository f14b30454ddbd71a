package parser

import (
	"fmt"

	"github.com/corvid-tools/magpie/internal/note"
	"github.com/corvid-tools/magpie/internal/paths"
	"github.com/corvid-tools/magpie/internal/wikilink"
)

// Parse parses raw file content into a Note. relPath is the vault-relative
// file path; the note ID is derived from it.
//
// Structural frontmatter problems return an error wrapping
// ErrMalformedFrontmatter. Unknown enum values for type/status are also
// errors: a note with an unrecognized lifecycle position must not be
// processed, or the pipeline could promote or archive it incorrectly.
func Parse(content string, relPath string) (*note.Note, error) {
	yamlBlock, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	fm, err := parseFrontmatter(yamlBlock)
	if err != nil {
		return nil, err
	}

	noteType, err := note.ParseType(fm.Type)
	if err != nil {
		return nil, err
	}
	status, err := note.ParseStatus(fm.Status)
	if err != nil {
		return nil, err
	}

	created, err := parseTimestampField("created", fm.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseTimestampField("modified", fm.Modified)
	if err != nil {
		return nil, err
	}

	id := paths.FilePathToNoteID(relPath)
	if id == "" {
		return nil, fmt.Errorf("cannot derive note ID from path %q", relPath)
	}

	extra := fm.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}

	return &note.Note{
		ID:         id,
		Path:       relPath,
		Type:       noteType,
		Status:     status,
		Created:    created,
		Modified:   modified,
		Tags:       fm.Tags,
		LinksOut:   wikilink.ExtractTargets(body),
		Visibility: note.Visibility(fm.Visibility),
		Extra:      extra,
		Body:       body,
	}, nil
}

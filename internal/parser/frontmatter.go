// Package parser handles parsing and serializing markdown notes.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corvid-tools/magpie/internal/dates"
	"github.com/corvid-tools/magpie/internal/note"
)

// ErrMalformedFrontmatter indicates the YAML frontmatter block is absent,
// unterminated, or not a mapping. Notes failing this way are skipped by
// batch processing, never silently repaired.
var ErrMalformedFrontmatter = errors.New("malformed frontmatter")

// frontmatter mirrors the on-disk YAML block. Unknown fields land in Extra
// and survive a parse/serialize round trip unchanged.
type frontmatter struct {
	Type       string                 `yaml:"type,omitempty"`
	Created    string                 `yaml:"created,omitempty"`
	Modified   string                 `yaml:"modified,omitempty"`
	Status     string                 `yaml:"status,omitempty"`
	Tags       []string               `yaml:"tags"`
	Visibility string                 `yaml:"visibility,omitempty"`
	Extra      map[string]interface{} `yaml:",inline"`
}

// FrontmatterBounds returns the closing delimiter line index of the
// frontmatter block. It only detects frontmatter when the first line is
// '---'. If the block is unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i, true
		}
	}
	return -1, true
}

// splitFrontmatter separates raw content into the YAML block and the body.
func splitFrontmatter(content string) (yamlBlock, body string, err error) {
	lines := strings.Split(content, "\n")

	endLine, ok := FrontmatterBounds(lines)
	if !ok {
		return "", "", fmt.Errorf("%w: missing opening delimiter", ErrMalformedFrontmatter)
	}
	if endLine == -1 {
		return "", "", fmt.Errorf("%w: missing closing delimiter", ErrMalformedFrontmatter)
	}

	yamlBlock = strings.Join(lines[1:endLine], "\n")
	if endLine+1 < len(lines) {
		body = strings.Join(lines[endLine+1:], "\n")
	}
	return yamlBlock, body, nil
}

// parseFrontmatter decodes the YAML block. A non-mapping document (list,
// scalar) is malformed; an empty block yields defaults.
func parseFrontmatter(yamlBlock string) (*frontmatter, error) {
	var fm frontmatter
	if strings.TrimSpace(yamlBlock) != "" {
		// Decode into a generic value first so a non-mapping document is
		// reported as malformed rather than as a type mismatch.
		var probe interface{}
		if err := yaml.Unmarshal([]byte(yamlBlock), &probe); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
		}
		if _, isMap := probe.(map[string]interface{}); probe != nil && !isMap {
			return nil, fmt.Errorf("%w: frontmatter is not a mapping", ErrMalformedFrontmatter)
		}
		if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
		}
	}

	// Documented defaults for missing optional fields.
	if fm.Type == "" {
		fm.Type = string(note.TypeInbox)
	}
	if fm.Status == "" {
		fm.Status = string(note.StatusInbox)
	}
	if fm.Visibility == "" {
		fm.Visibility = string(note.VisibilityPrivate)
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	return &fm, nil
}

// parseTimestampField parses a frontmatter timestamp that YAML may have
// delivered as a string or (for bare dates) a time.Time in Extra.
func parseTimestampField(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := dates.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q: %w", field, err)
	}
	return t, nil
}

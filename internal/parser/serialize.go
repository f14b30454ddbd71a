package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corvid-tools/magpie/internal/dates"
	"github.com/corvid-tools/magpie/internal/note"
)

// Serialize renders a note back to file content: YAML frontmatter fenced by
// '---' lines, followed by the body.
//
// Known fields are written in a fixed order; extra fields follow, sorted by
// key (yaml.v3 marshals inline maps deterministically). Together with Parse
// this is lossless: fields not modeled by Note survive unchanged.
func Serialize(n *note.Note) ([]byte, error) {
	fm := frontmatter{
		Type:       string(n.Type),
		Status:     string(n.Status),
		Visibility: string(n.Visibility),
		Tags:       n.Tags,
		Extra:      n.Extra,
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	if !n.Created.IsZero() {
		fm.Created = dates.FormatTimestamp(n.Created)
	}
	if n.HasModified() {
		fm.Modified = dates.FormatTimestamp(n.Modified)
	}
	// yaml.v3 rejects a nil inline map's entries gracefully, but keep the
	// struct uniform with what parseFrontmatter produces.
	if fm.Extra == nil {
		fm.Extra = map[string]interface{}{}
	}

	yamlData, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(yamlData)
	b.WriteString("---\n")
	b.WriteString(n.Body)
	return []byte(b.String()), nil
}

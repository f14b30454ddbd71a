// Package wikilink provides canonical parsing/scanning of wiki-links.
//
// Wikilink grammar:
//   [[target]]
//   [[target|display text]]
//
// Notes:
// - The target is trimmed of surrounding whitespace.
// - The display text (if present) is also trimmed.
// - Fenced code blocks are excluded by ExtractTargets; the line-level
//   scanner itself does not understand markdown structure.
package wikilink

import (
	"regexp"
	"strings"
)

// Match represents a wikilink found in a string (typically a single line).
type Match struct {
	Target      string
	DisplayText *string
	Start       int
	End         int
	Literal     string
}

// re matches [[target]] or [[target|display]].
// The target cannot contain [ or ] so nested brackets never match.
var re = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// ParseExact parses a string that is exactly a wikilink literal, returning
// its target and optional display text.
func ParseExact(s string) (target string, display *string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if target == "" {
		return "", nil, false
	}
	if len(parts) == 2 {
		d := strings.TrimSpace(parts[1])
		display = &d
	}
	return target, display, true
}

// FindAllInLine finds wikilinks in a single line.
func FindAllInLine(line string) []Match {
	var out []Match

	matches := re.FindAllStringSubmatchIndex(line, -1)
	for _, m := range matches {
		if len(m) < 4 {
			continue
		}
		start, end := m[0], m[1]

		target := strings.TrimSpace(line[m[2]:m[3]])
		if target == "" {
			continue
		}

		var display *string
		if len(m) >= 6 && m[4] >= 0 && m[5] >= 0 {
			d := strings.TrimSpace(line[m[4]:m[5]])
			display = &d
		}

		out = append(out, Match{
			Target:      target,
			DisplayText: display,
			Start:       start,
			End:         end,
			Literal:     line[start:end],
		})
	}

	return out
}

// ExtractTargets returns the unique wikilink targets in content, in order of
// first appearance. Lines inside fenced code blocks are skipped, as are
// inline code spans.
func ExtractTargets(content string) []string {
	var targets []string
	seen := make(map[string]struct{})
	inFence := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range FindAllInLine(stripInlineCode(line)) {
			if _, ok := seen[m.Target]; ok {
				continue
			}
			seen[m.Target] = struct{}{}
			targets = append(targets, m.Target)
		}
	}

	return targets
}

// stripInlineCode blanks out `code` spans so links inside them are ignored.
// Span contents are replaced with spaces to keep column positions stable.
func stripInlineCode(line string) string {
	var b strings.Builder
	inCode := false
	for _, r := range line {
		if r == '`' {
			inCode = !inCode
			b.WriteRune(' ')
			continue
		}
		if inCode {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

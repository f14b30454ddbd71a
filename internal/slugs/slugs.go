// Package slugs provides canonical slugification helpers used across Magpie.
//
// Two strategies exist:
//   - Tag slugs: kebab-case normalization for tag values (AI suggestions and
//     user input alike pass through this before landing in frontmatter).
//   - Path slugs: used for filenames/note IDs, built on gosimple/slug.
//
// This package centralizes both so their implementations are not duplicated.
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// TagSlug normalizes a tag to kebab-case: lowercase letters and digits, with
// runs of separators and punctuation collapsed to single dashes.
func TagSlug(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == '/' || r == ':' || r == '.':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// ComponentSlug converts a string to a slug appropriate for file/path components.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// NoteID builds a note ID from a title: each "/"-separated component is
// slugged individually so directory structure in titles is preserved.
func NoteID(title string) string {
	title = strings.TrimSuffix(title, ".md")
	parts := strings.Split(title, "/")
	for i, part := range parts {
		parts[i] = ComponentSlug(part)
	}
	return strings.Join(parts, "/")
}

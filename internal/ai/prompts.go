package ai

import (
	"fmt"
	"strings"
)

// tagPromptBodyLimit caps how much note body is sent to the backend.
// Tags describe the note's topic; the opening is enough to determine it.
const tagPromptBodyLimit = 4000

// SuggestTagsPrompt builds the prompt for semantic tag suggestions.
func SuggestTagsPrompt(body string, existing []string, maxTags int) string {
	if len(body) > tagPromptBodyLimit {
		body = body[:tagPromptBodyLimit]
	}

	existingLine := "none"
	if len(existing) > 0 {
		existingLine = strings.Join(existing, ", ")
	}

	return fmt.Sprintf(`You are a note-tagging assistant for a Zettelkasten vault.

Suggest up to %d topical tags for the note below. Rules:
- lowercase kebab-case only (e.g. knowledge-management)
- one concept per tag, no sentences
- do not repeat existing tags: %s
- respond with a single comma-separated line of tags and nothing else

Note:
"""
%s
"""
`, maxTags, existingLine, body)
}

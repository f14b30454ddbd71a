package ai

import (
	"context"
	"strings"

	"github.com/corvid-tools/magpie/internal/slugs"
)

// SuggestTags asks the backend for semantic tags for a note body.
//
// The backend's free-text reply is parsed for comma- or line-separated
// candidates, normalized to kebab-case, deduplicated against existingTags
// (and itself), and truncated to maxTags.
//
// On backend failure the returned slice is empty and the error wraps
// ErrBackendUnavailable; callers surface it as a warning, never a fatal
// error. Tagging is best-effort.
func SuggestTags(ctx context.Context, gen Generator, body string, existingTags []string, maxTags int) ([]string, error) {
	if maxTags <= 0 {
		return nil, nil
	}

	reply, err := gen.GenerateText(ctx, SuggestTagsPrompt(body, existingTags, maxTags))
	if err != nil {
		return nil, err
	}

	return ParseTagReply(reply, existingTags, maxTags), nil
}

// ParseTagReply extracts normalized tag candidates from a free-text backend
// reply. Unparsable replies yield an empty slice, not an error.
func ParseTagReply(reply string, existingTags []string, maxTags int) []string {
	existing := make(map[string]struct{}, len(existingTags))
	for _, t := range existingTags {
		existing[slugs.TagSlug(t)] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{})

	for _, line := range strings.Split(reply, "\n") {
		line = stripListMarker(line)
		if line == "" {
			continue
		}
		for _, candidate := range strings.Split(line, ",") {
			tag := slugs.TagSlug(strings.TrimSpace(candidate))
			if tag == "" || len(tag) > 64 {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			if _, dup := existing[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
			if len(out) >= maxTags {
				return out
			}
		}
	}

	return out
}

// stripListMarker removes leading bullet/numbering noise models sometimes
// add despite instructions ("- tag", "1. tag", "* tag").
func stripListMarker(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "- ")
	line = strings.TrimPrefix(line, "* ")
	if i := strings.IndexByte(line, '.'); i > 0 && i <= 3 && isDigits(line[:i]) {
		line = strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

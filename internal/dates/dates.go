// Package dates provides canonical date/datetime parsing helpers.
//
// This package exists to avoid duplicating timestamp handling across:
// - frontmatter parsing (created/modified fields)
// - promotion age checks
// - report rendering
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is a bare date, as written in frontmatter.
	DateLayout = "2006-01-02"

	// DatetimeLayout is the canonical frontmatter timestamp (minute precision).
	DatetimeLayout = "2006-01-02 15:04"

	// DatetimeSecondsLayout is accepted on input for tools that write seconds.
	DatetimeSecondsLayout = "2006-01-02 15:04:05"
)

// acceptedLayouts are tried in order when parsing a timestamp string.
var acceptedLayouts = []string{
	DatetimeLayout,
	DatetimeSecondsLayout,
	DateLayout,
	time.RFC3339,
}

// ParseTimestamp parses a frontmatter timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", s)
}

// FormatTimestamp renders a timestamp in the canonical frontmatter layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(DatetimeLayout)
}

// FormatDate renders a bare date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

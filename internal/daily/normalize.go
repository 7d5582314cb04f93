package daily

import "strings"

const (
	incompleteMarker = "- [ ]"
	completeMarker   = "- [x]"
)

// Normalize converts free text into checklist-item syntax. It is total and
// idempotent: text that is already a checklist item passes through
// unchanged, bullet lines get a checkbox spliced into the marker, and
// multi-line text is left alone.
//
// Empty input yields empty output; rejecting blank content is the caller's
// job.
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, incompleteMarker) || strings.HasPrefix(lower, completeMarker) {
		return trimmed
	}

	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return incompleteMarker + " " + trimmed[2:]
	}

	// Multi-line input is passed through untouched rather than guessing
	// which lines are items.
	if strings.Contains(trimmed, "\n") {
		return trimmed
	}

	return incompleteMarker + " " + trimmed
}

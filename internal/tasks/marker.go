package tasks

import "strings"

// completedPrefix encodes calendar-event completion inside the summary text.
// The server and any other calendar client must agree on the exact bytes,
// trailing space included.
const completedPrefix = "✅ "

// IsCompleted reports whether a summary carries the completion marker.
func IsCompleted(summary string) bool {
	return strings.HasPrefix(summary, completedPrefix)
}

// Mark returns the summary with the completion marker applied. Marking an
// already-marked summary is idempotent.
func Mark(summary string) string {
	if IsCompleted(summary) {
		return summary
	}
	return completedPrefix + summary
}

// Strip returns the summary without the completion marker. Stripping an
// unmarked summary returns it unchanged.
func Strip(summary string) string {
	return strings.TrimPrefix(summary, completedPrefix)
}

// Toggle flips the completion state of a summary.
func Toggle(summary string) string {
	if IsCompleted(summary) {
		return Strip(summary)
	}
	return Mark(summary)
}

package util

import (
	"strings"
	"time"
)

// StampNote prefixes a staff note with its timestamp:
//
//	[2024-05-01T16:02:07Z] called seller, extending inspection
//
// The stamped entry is what gets appended to the deal's note history; prior
// entries are never rewritten.
func StampNote(at time.Time, text string) string {
	return "[" + at.UTC().Format(time.RFC3339) + "] " + strings.TrimSpace(text)
}

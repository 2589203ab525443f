package util

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDateUTC parses a YYYY-MM-DD string as midnight UTC. Dates are pinned to
// UTC midnight so the calendar date survives a round trip through the database
// regardless of the server or client timezone.
func ParseDateUTC(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a stored date back to YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

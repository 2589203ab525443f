package util

import (
	"path/filepath"
	"strings"
)

// DigitsOnly strips everything but ASCII digits from a phone-number-like string.
// Phone numbers are stored digits-only so "(555) 123-4567" and "555.123.4567"
// compare equal.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeFileName reduces an uploaded filename to its base name with
// path separators and whitespace replaced, keeping the extension intact.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSpace(base)
	replacer := strings.NewReplacer(" ", "_", "#", "_", "?", "_", "%", "_", "&", "_")
	return replacer.Replace(base)
}

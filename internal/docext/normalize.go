package docext

import "strings"

// Normalize collapses every whitespace run (spaces, tabs, newlines) into a
// single space and trims the ends. The result never contains consecutive
// whitespace, and normalizing already-normalized text is a no-op.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package markers interprets the yes/no-like strings stored in spreadsheet flag columns.
package markers

import "strings"

const (
	Affirmative = "sim"
	Negative    = "não"
)

// IsAffirmative reports whether value is the affirmative marker, ignoring case and
// surrounding whitespace.
func IsAffirmative(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), Affirmative)
}

// OnlyDigits removes every non digit character from s.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

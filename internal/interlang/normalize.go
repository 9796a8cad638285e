// Package interlang attaches a pedagogical hypothesis to an error cluster:
// the interlanguage rule the learner appears to have internalized, the
// presumed transfer source, and a suggested intervention. Lookup is keyed
// by (error type, normalized category) with an ordered fuzzy fallback.
package interlang

import "strings"

// Normalize reduces a free-text category to a canonical key: lowercase,
// runs of non-alphanumeric characters collapsed to a single underscore,
// leading and trailing underscores trimmed.
func Normalize(category string) string {
	var b strings.Builder
	b.Grow(len(category))

	inSep := false
	for _, r := range strings.ToLower(category) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if inSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			inSep = false
			continue
		}
		inSep = true
	}
	return b.String()
}

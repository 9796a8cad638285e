package interlang

import (
	"strings"

	"github.com/linguakit/linguakit/internal/signal"
)

// Lookup resolves the pedagogical note for an error cluster.
//
// Resolution is three-stage: exact match of the normalized category against
// the per-type table, then the ordered fuzzy list (first key contained in
// the normalized category wins), then the per-type default. It never fails;
// an unrecognized category yields the generic note for its type.
func Lookup(errorType signal.ErrorType, category string) Note {
	norm := Normalize(category)

	table := notes[errorType]
	if table != nil {
		if note, ok := table[norm]; ok {
			return note
		}
		for _, key := range fuzzyOrder[errorType] {
			if strings.Contains(norm, key) {
				return table[key]
			}
		}
	}

	if def, ok := defaults[errorType]; ok {
		return def
	}
	return genericDefault
}

package interlang

import (
	"strings"
	"testing"

	"github.com/linguakit/linguakit/internal/signal"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Verb Conjugation", "verb_conjugation"},
		{"verb---conjugation", "verb_conjugation"},
		{"  Word Order!! ", "word_order"},
		{"th-sound (initial)", "th_sound_initial"},
		{"___", ""},
		{"", ""},
		{"UPPER_CASE", "upper_case"},
		{"a  b\tc", "a_b_c"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLookupExact(t *testing.T) {
	note := Lookup(signal.TypeGrammar, "verb_conjugation")
	if !strings.Contains(note.Rule, "invariant verb form") {
		t.Errorf("exact lookup returned wrong note: %q", note.Rule)
	}
}

func TestLookupFuzzyPrefersSpecific(t *testing.T) {
	// "verb_conjugation_present" contains both "verb_conjugation" and "verb";
	// the ordered fuzzy list must resolve the conjugation-specific rule.
	note := Lookup(signal.TypeGrammar, "verb_conjugation_present")
	if note != notes[signal.TypeGrammar]["verb_conjugation"] {
		t.Errorf("fuzzy lookup resolved %q, want the verb_conjugation note", note.Rule)
	}
	if note == notes[signal.TypeGrammar]["verb"] {
		t.Error("fuzzy lookup resolved the generic verb note instead of verb_conjugation")
	}
}

func TestLookupFuzzySubstring(t *testing.T) {
	note := Lookup(signal.TypePronunciation, "initial th-sound substitution")
	if note != notes[signal.TypePronunciation]["th_sound"] {
		t.Errorf("expected th_sound note, got %q", note.Rule)
	}
}

func TestLookupUnknownCategoryFallsBack(t *testing.T) {
	note := Lookup(signal.TypeGrammar, "completely mysterious thing")
	if note != defaults[signal.TypeGrammar] {
		t.Errorf("unknown grammar category should resolve to the grammar default, got %q", note.Rule)
	}
	if note.Rule == "" || note.Intervention == "" {
		t.Error("default note must be non-empty")
	}
}

func TestLookupUnknownTypeFallsBack(t *testing.T) {
	note := Lookup(signal.ErrorType("telepathy"), "anything")
	if note != genericDefault {
		t.Errorf("unknown type should resolve to the generic default, got %q", note.Rule)
	}
}

func TestFuzzyOrderKeysExist(t *testing.T) {
	// Every fuzzy key must have a table entry; a dangling key would make
	// Lookup return a zero Note.
	for errType, keys := range fuzzyOrder {
		for _, key := range keys {
			if _, ok := notes[errType][key]; !ok {
				t.Errorf("fuzzy key %q for type %q has no table entry", key, errType)
			}
		}
	}
}

func TestFuzzyOrderSpecificBeforeGeneric(t *testing.T) {
	// The ordering contract: any key that is a substring of another key
	// must come after it.
	for errType, keys := range fuzzyOrder {
		for i, outer := range keys {
			for j, inner := range keys {
				if i < j && strings.Contains(inner, outer) && inner != outer {
					t.Errorf("type %q: %q (pos %d) must come after %q (pos %d)",
						errType, outer, i, inner, j)
				}
			}
		}
	}
}

package signal

import "testing"

func TestSeverityFromConfidence(t *testing.T) {
	cases := []struct {
		confidence float64
		want       Severity
	}{
		{0.85, SeverityHigh},
		{0.8, SeverityHigh},
		{0.79, SeverityMedium},
		{0.6, SeverityMedium},
		{0.59, SeverityLow},
		{0.0, SeverityLow},
	}
	for _, c := range cases {
		if got := SeverityFromConfidence(c.confidence); got != c.want {
			t.Errorf("SeverityFromConfidence(%v) = %q, want %q", c.confidence, got, c.want)
		}
	}
}

func TestSeverityFromSimilarity(t *testing.T) {
	cases := []struct {
		similarity float64
		want       Severity
	}{
		{0.9, SeverityLow},
		{0.8, SeverityLow},
		{0.7, SeverityMedium},
		{0.5, SeverityMedium},
		{0.4, SeverityHigh},
		{0.0, SeverityHigh},
	}
	for _, c := range cases {
		if got := SeverityFromSimilarity(c.similarity); got != c.want {
			t.Errorf("SeverityFromSimilarity(%v) = %q, want %q", c.similarity, got, c.want)
		}
	}
}

func TestSeverityFromInterpretation(t *testing.T) {
	if got := SeverityFromInterpretation(OffTopic); got != SeverityHigh {
		t.Errorf("off_topic = %q, want high", got)
	}
	if got := SeverityFromInterpretation(PartiallyRelevant); got != SeverityMedium {
		t.Errorf("partially_relevant = %q, want medium", got)
	}
	if got := SeverityFromInterpretation(OnTopic); got != SeverityLow {
		t.Errorf("on_topic = %q, want low", got)
	}
}

func TestStorageCategory(t *testing.T) {
	cases := []struct {
		errType ErrorType
		want    string
	}{
		{TypeGrammar, "grammar"},
		{TypePronunciation, "pronunciation"},
		{TypeIntonation, "pronunciation"},
		{TypeSemantic, "vocabulary"},
		{TypeRelevance, "pragmatics"},
		{ErrorType("mystery"), "general"},
	}
	for _, c := range cases {
		if got := StorageCategory(c.errType); got != c.want {
			t.Errorf("StorageCategory(%q) = %q, want %q", c.errType, got, c.want)
		}
	}
}

package signal

// SeverityFromConfidence maps an analyzer confidence score to a severity.
// High confidence in the diagnosis means the mistake is almost certainly
// real, so it is graded harder.
func SeverityFromConfidence(confidence float64) Severity {
	switch {
	case confidence >= 0.8:
		return SeverityHigh
	case confidence >= 0.6:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SeverityFromSimilarity maps a semantic similarity score to a severity.
// The mapping is inverted: the closer the learner got to the intended
// meaning, the less severe the mismatch.
func SeverityFromSimilarity(similarity float64) Severity {
	switch {
	case similarity >= 0.8:
		return SeverityLow
	case similarity >= 0.5:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// SeverityFromInterpretation maps a relevance verdict to a severity.
// The on_topic branch is unreachable through extraction (on-topic responses
// produce no occurrence) but is kept so the mapping is total.
func SeverityFromInterpretation(i Interpretation) Severity {
	switch i {
	case OffTopic:
		return SeverityHigh
	case PartiallyRelevant:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// StorageCategory maps an error type to the coarse category used by the
// persistence layer and the curriculum planner.
func StorageCategory(t ErrorType) string {
	switch t {
	case TypeGrammar:
		return "grammar"
	case TypePronunciation, TypeIntonation:
		return "pronunciation"
	case TypeSemantic:
		return "vocabulary"
	case TypeRelevance:
		return "pragmatics"
	default:
		return "general"
	}
}

package feedback

import (
	"fmt"

	"github.com/linguakit/linguakit/internal/signal"
)

// extractOccurrences flattens every detected mistake across the present
// signals into standardized error occurrences. One pass, order-independent;
// all rules that apply contribute.
func extractOccurrences(in Input) []signal.ErrorOccurrence {
	var out []signal.ErrorOccurrence

	if in.Grammar != nil {
		for _, ge := range in.Grammar.Errors {
			out = append(out, grammarOccurrence(in, ge))
		}
	}

	if in.Pronunciation != nil {
		for _, pe := range in.Pronunciation.DetectedErrors {
			out = append(out, signal.ErrorOccurrence{
				Type:              signal.TypePronunciation,
				Category:          "phonology",
				Pattern:           fmt.Sprintf("%s_mispronunciation", pe.Phoneme),
				LearnerProduction: pe.Actual,
				CorrectForm:       pe.Expected,
				Confidence:        pe.Confidence,
				Severity:          signal.SeverityFromConfidence(pe.Confidence),
				InputType:         in.Modality,
				FeedbackType:      signal.FeedbackError,
				Context:           in.Context,
			})
		}
	}

	if in.Semantic != nil && !in.Semantic.SemanticMatch {
		out = append(out, signal.ErrorOccurrence{
			Type:              signal.TypeSemantic,
			Category:          "meaning",
			Pattern:           "semantic_mismatch",
			LearnerProduction: in.LearnerText,
			CorrectForm:       in.ExpectedText,
			Confidence:        1 - in.Semantic.Similarity,
			Severity:          signal.SeverityFromSimilarity(in.Semantic.Similarity),
			InputType:         in.Modality,
			FeedbackType:      signal.FeedbackError,
			Context:           in.Context,
		})
	}

	if in.Intonation != nil {
		for _, w := range in.Intonation.Warnings {
			out = append(out, signal.ErrorOccurrence{
				Type:              signal.TypeIntonation,
				Category:          "stress_pattern",
				Pattern:           fmt.Sprintf("%s_stress_error", w.Word),
				LearnerProduction: w.UserStress,
				CorrectForm:       w.ExpectedStress,
				Confidence:        stressConfidence,
				Severity:          stressSeverity(w),
				InputType:         in.Modality,
				FeedbackType:      signal.FeedbackError,
				Context:           in.Context,
			})
		}
	}

	if in.Relevance != nil && in.Relevance.Interpretation != signal.OnTopic {
		out = append(out, signal.ErrorOccurrence{
			Type:              signal.TypeRelevance,
			Category:          "off_topic",
			Pattern:           fmt.Sprintf("%s_drift", in.Relevance.Interpretation),
			LearnerProduction: in.LearnerText,
			Confidence:        1 - in.Relevance.RelevanceScore,
			Severity:          signal.SeverityFromInterpretation(in.Relevance.Interpretation),
			InputType:         in.Modality,
			FeedbackType:      signal.FeedbackError,
			Context:           in.Context,
		})
	}

	return out
}

// Stress placements that change word meaning come from a fixed rule
// table, so the diagnosis itself is near-certain.
const stressConfidence = 0.9

// stressSeverity takes the rule table's own severity when it supplies
// a known level, otherwise derives one from the fixed confidence.
func stressSeverity(w signal.StressWarning) signal.Severity {
	switch s := signal.Severity(w.Severity); s {
	case signal.SeverityLow, signal.SeverityMedium, signal.SeverityHigh:
		return s
	default:
		return signal.SeverityFromConfidence(stressConfidence)
	}
}

func grammarOccurrence(in Input, ge signal.GrammarError) signal.ErrorOccurrence {
	category := ge.Category
	if category == "" {
		category = "unknown"
	}
	pattern := ge.Type
	if pattern == "" {
		pattern = category
	}
	feedbackType := ge.FeedbackType
	if feedbackType == "" {
		feedbackType = signal.FeedbackError
	}
	return signal.ErrorOccurrence{
		Type:              signal.TypeGrammar,
		Category:          category,
		Pattern:           pattern,
		LearnerProduction: ge.Original,
		CorrectForm:       ge.Correction,
		Confidence:        ge.Confidence,
		Severity:          signal.SeverityFromConfidence(ge.Confidence),
		InputType:         in.Modality,
		FeedbackType:      feedbackType,
		Context:           in.Context,
	}
}

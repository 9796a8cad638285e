// Package signal defines the typed results produced by the external
// diagnostic analyzers (grammar, semantic similarity, pronunciation,
// intonation, topic relevance) and the normalized error occurrence
// extracted from them. Values are immutable once created.
package signal

// Modality is whether the graded submission was typed or spoken.
// It determines which signals are required and which scoring weights apply.
type Modality string

const (
	ModalityText   Modality = "text"
	ModalitySpeech Modality = "speech"
)

// ErrorType is the high-level class of a learner mistake.
type ErrorType string

const (
	TypeGrammar       ErrorType = "grammar"
	TypePronunciation ErrorType = "pronunciation"
	TypeSemantic      ErrorType = "semantic"
	TypeIntonation    ErrorType = "intonation"
	TypeRelevance     ErrorType = "relevance"
)

// Severity is the 3-level severity of an error occurrence.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FeedbackType distinguishes graded mistakes from non-punitive
// stylistic suggestions.
type FeedbackType string

const (
	FeedbackError      FeedbackType = "error"
	FeedbackSuggestion FeedbackType = "suggestion"
)

// Interpretation is the relevance analyzer's verdict on a response.
type Interpretation string

const (
	OnTopic           Interpretation = "on_topic"
	PartiallyRelevant Interpretation = "partially_relevant"
	OffTopic          Interpretation = "off_topic"
)

// GrammarError is one mistake found by the grammar correction model.
type GrammarError struct {
	Type         string       `json:"type"`
	Category     string       `json:"category"`
	Original     string       `json:"original"`
	Correction   string       `json:"correction"`
	Explanation  string       `json:"explanation"`
	Confidence   float64      `json:"confidence"`
	FeedbackType FeedbackType `json:"feedbackType,omitempty"`
}

// GrammarResult is the grammar correction model's output for a submission.
type GrammarResult struct {
	CorrectedText string         `json:"correctedText"`
	Errors        []GrammarError `json:"errors"`
	GrammarScore  float64        `json:"grammarScore"` // 0-100
}

// SemanticResult is the semantic-similarity model's comparison of the
// learner's production against the expected meaning.
type SemanticResult struct {
	Similarity    float64 `json:"similarity"` // 0-1
	SemanticMatch bool    `json:"semanticMatch"`
	Threshold     float64 `json:"threshold"`
	FallbackUsed  bool    `json:"fallbackUsed"`
}

// PronunciationError is one mispronounced phoneme detected by the
// transcription model.
type PronunciationError struct {
	Phoneme    string  `json:"phoneme"`
	Word       string  `json:"word"`
	Expected   string  `json:"expected"`
	Actual     string  `json:"actual"`
	Confidence float64 `json:"confidence"`
}

// PronunciationResult is the pronunciation model's output for a spoken
// submission.
type PronunciationResult struct {
	OverallScore   float64              `json:"overallPronunciationScore"` // 0-100
	DetectedErrors []PronunciationError `json:"detectedErrors"`
}

// StressWarning flags a word whose stress placement changes its meaning.
type StressWarning struct {
	Word            string `json:"word"`
	ExpectedStress  string `json:"expected_stress"`
	UserStress      string `json:"user_stress"`
	ExpectedMeaning string `json:"expected_meaning"`
	ActualMeaning   string `json:"actual_meaning"`
	Severity        string `json:"severity"`
}

// IntonationResult is the stress/intonation rule table's output.
type IntonationResult struct {
	Warnings []StressWarning `json:"warnings"`
}

// RelevanceResult is the topic-relevance model's verdict.
type RelevanceResult struct {
	RelevanceScore float64        `json:"relevance_score"` // 0-1
	Interpretation Interpretation `json:"interpretation"`
	TopicAnalysis  string         `json:"topic_analysis"`
}

// ErrorOccurrence is one concrete mistake instance extracted from a graded
// submission. Occurrences are created once, persisted, and never updated.
type ErrorOccurrence struct {
	Type              ErrorType    `json:"type"`
	Category          string       `json:"category"`
	Pattern           string       `json:"pattern"`
	LearnerProduction string       `json:"learnerProduction"`
	CorrectForm       string       `json:"correctForm,omitempty"`
	Confidence        float64      `json:"confidence"` // 0-1
	Severity          Severity     `json:"severity"`
	InputType         Modality     `json:"inputType"`
	FeedbackType      FeedbackType `json:"feedbackType"`
	Context           string       `json:"context,omitempty"`
}

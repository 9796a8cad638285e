// Package feedback merges independent diagnostic signals for one graded
// submission into a unified report: a weighted overall score, a component
// status map, and a flat list of extracted error occurrences.
package feedback

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/linguakit/linguakit/internal/signal"
)

// Component identifies one diagnostic signal in the pipeline.
type Component string

const (
	ComponentGrammar       Component = "grammar"
	ComponentSemantic      Component = "semantic"
	ComponentPronunciation Component = "pronunciation"
	ComponentIntonation    Component = "intonation"
	ComponentRelevance     Component = "relevance"
)

// Components lists every known component. The report's status map always
// has an entry for each.
var Components = []Component{
	ComponentGrammar,
	ComponentSemantic,
	ComponentPronunciation,
	ComponentIntonation,
	ComponentRelevance,
}

// ComponentStatus is the outcome of one signal within a report.
type ComponentStatus string

const (
	StatusSuccess ComponentStatus = "success"
	StatusError   ComponentStatus = "error"
	StatusSkipped ComponentStatus = "skipped"
)

// Input carries the per-signal results for one submission. Grammar and
// Semantic are required; the rest depend on modality.
type Input struct {
	UserID    string
	SessionID string
	Modality  signal.Modality

	// LearnerText is the learner's production (or its transcription);
	// ExpectedText is the prompt's intended meaning. Used when an
	// occurrence has no more specific production to attach.
	LearnerText  string
	ExpectedText string

	// Context labels where the submission came from (e.g. "chaos_window"
	// for free conversation practice). Carried onto every occurrence.
	Context string

	Grammar       *signal.GrammarResult
	Semantic      *signal.SemanticResult
	Pronunciation *signal.PronunciationResult
	Intonation    *signal.IntonationResult
	Relevance     *signal.RelevanceResult
}

// Report is the unified result of grading one submission.
type Report struct {
	UserID       string
	SessionID    string
	Modality     signal.Modality
	OverallScore int // 0-100
	Errors       []signal.ErrorOccurrence
	Components   map[Component]ComponentStatus

	Grammar       *signal.GrammarResult
	Semantic      *signal.SemanticResult
	Pronunciation *signal.PronunciationResult
	Intonation    *signal.IntonationResult
	Relevance     *signal.RelevanceResult

	CreatedAt time.Time
}

// scoring weights per modality. Only weights for present signals
// participate; the score is a true weighted average over what's there.
var (
	textWeights = map[Component]float64{
		ComponentGrammar:  0.6,
		ComponentSemantic: 0.4,
	}
	speechWeights = map[Component]float64{
		ComponentGrammar:       0.4,
		ComponentPronunciation: 0.3,
		ComponentSemantic:      0.3,
	}
)

// Aggregate validates, scores, and extracts errors from the input signals.
//
// Grammar and semantic results are required for every modality; a missing
// one returns *MissingSignalError. For speech, absent pronunciation or
// intonation results downgrade the component to StatusError and scoring
// proceeds with the signals available.
func Aggregate(in Input) (*Report, error) {
	if in.Grammar == nil {
		return nil, &MissingSignalError{Signal: ComponentGrammar}
	}
	if in.Semantic == nil {
		return nil, &MissingSignalError{Signal: ComponentSemantic}
	}

	report := &Report{
		UserID:        in.UserID,
		SessionID:     in.SessionID,
		Modality:      in.Modality,
		Components:    componentStatuses(in),
		Grammar:       in.Grammar,
		Semantic:      in.Semantic,
		Pronunciation: in.Pronunciation,
		Intonation:    in.Intonation,
		Relevance:     in.Relevance,
		CreatedAt:     time.Now().UTC(),
	}

	report.OverallScore = overallScore(in)
	report.Errors = extractOccurrences(in)

	return report, nil
}

// componentStatuses derives the status map. Every known component gets an
// entry: success when the signal is present, skipped when not applicable
// to the modality (or optional and absent), error when expected for the
// modality but missing.
func componentStatuses(in Input) map[Component]ComponentStatus {
	statuses := make(map[Component]ComponentStatus, len(Components))

	statuses[ComponentGrammar] = StatusSuccess
	statuses[ComponentSemantic] = StatusSuccess

	if in.Modality == signal.ModalitySpeech {
		statuses[ComponentPronunciation] = speechStatus(in.Pronunciation != nil, ComponentPronunciation, in)
		statuses[ComponentIntonation] = speechStatus(in.Intonation != nil, ComponentIntonation, in)
	} else {
		statuses[ComponentPronunciation] = StatusSkipped
		statuses[ComponentIntonation] = StatusSkipped
	}

	if in.Relevance != nil {
		statuses[ComponentRelevance] = StatusSuccess
	} else {
		statuses[ComponentRelevance] = StatusSkipped
	}

	return statuses
}

func speechStatus(present bool, c Component, in Input) ComponentStatus {
	if present {
		return StatusSuccess
	}
	zap.L().Warn("speech signal missing, scoring with remaining signals",
		zap.String("component", string(c)),
		zap.String("user_id", in.UserID),
		zap.String("session_id", in.SessionID),
	)
	return StatusError
}

// overallScore computes the weighted average of the present signals'
// 0-100-normalized sub-scores, rounded to the nearest integer.
func overallScore(in Input) int {
	weights := textWeights
	if in.Modality == signal.ModalitySpeech {
		weights = speechWeights
	}

	var sum, weightUsed float64

	if w, ok := weights[ComponentGrammar]; ok && in.Grammar != nil {
		sum += in.Grammar.GrammarScore * w
		weightUsed += w
	}
	if w, ok := weights[ComponentSemantic]; ok && in.Semantic != nil {
		sum += in.Semantic.Similarity * 100 * w
		weightUsed += w
	}
	if w, ok := weights[ComponentPronunciation]; ok && in.Pronunciation != nil {
		sum += in.Pronunciation.OverallScore * w
		weightUsed += w
	}

	if weightUsed == 0 {
		return 0
	}
	return int(math.Round(sum / weightUsed))
}

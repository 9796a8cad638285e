// Package diagnostics produces the per-signal analysis results the
// aggregation pipeline consumes. Grammar, semantic similarity, and topic
// relevance run against a hosted language model; pronunciation and
// intonation results arrive pre-computed from external speech tooling.
package diagnostics

import (
	"context"

	"github.com/linguakit/linguakit/internal/signal"
)

// Submission is one learner production to analyze.
type Submission struct {
	LearnerText  string
	ExpectedText string
	Language     string // target language, e.g. "Spanish"
	Topic        string // conversation topic for relevance, optional
}

// GrammarAnalyzer finds and corrects grammatical mistakes.
type GrammarAnalyzer interface {
	AnalyzeGrammar(ctx context.Context, sub Submission) (*signal.GrammarResult, error)
}

// SemanticAnalyzer judges whether the learner's production carries the
// expected meaning.
type SemanticAnalyzer interface {
	CompareMeaning(ctx context.Context, sub Submission) (*signal.SemanticResult, error)
}

// RelevanceAnalyzer judges whether a free-conversation response stays on
// topic.
type RelevanceAnalyzer interface {
	AssessRelevance(ctx context.Context, sub Submission) (*signal.RelevanceResult, error)
}

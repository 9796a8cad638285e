package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/signal"
)

// DefaultSemanticThreshold is the similarity above which the learner's
// meaning counts as matching the expected meaning.
const DefaultSemanticThreshold = 0.7

// LLMSemanticAnalyzer compares meanings with a hosted language model.
// When the model is unavailable it falls back to lexical overlap so
// grading can proceed, flagged on the result.
type LLMSemanticAnalyzer struct {
	provider  llm.Provider
	cfg       AnalyzerConfig
	threshold float64
}

// NewSemanticAnalyzer creates an LLM-backed semantic analyzer with the
// default match threshold.
func NewSemanticAnalyzer(provider llm.Provider, cfg AnalyzerConfig) *LLMSemanticAnalyzer {
	return &LLMSemanticAnalyzer{provider: provider, cfg: cfg, threshold: DefaultSemanticThreshold}
}

const semanticSystemPrompt = `You judge whether a language learner's production carries
the same meaning as an expected utterance. Score semantic similarity from 0.0
(unrelated) to 1.0 (same meaning). Judge meaning only; ignore grammar and
spelling mistakes that do not change what the learner is saying.`

type semanticOutput struct {
	Similarity float64 `json:"similarity"`
	Reasoning  string  `json:"reasoning"`
}

func (a *LLMSemanticAnalyzer) CompareMeaning(ctx context.Context, sub Submission) (*signal.SemanticResult, error) {
	ctx = llm.WithPurpose(ctx, "semantic-comparison")

	prompt := fmt.Sprintf("Expected meaning:\n%s\n\nLearner production:\n%s", sub.ExpectedText, sub.LearnerText)
	resp, err := a.provider.Generate(ctx, llm.Request{
		System: semanticSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      SemanticSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		zap.L().Warn("semantic model unavailable, using lexical overlap",
			zap.Error(err),
		)
		similarity := lexicalSimilarity(sub.LearnerText, sub.ExpectedText)
		return &signal.SemanticResult{
			Similarity:    similarity,
			SemanticMatch: similarity >= a.threshold,
			Threshold:     a.threshold,
			FallbackUsed:  true,
		}, nil
	}

	var raw semanticOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse semantic response: %w", err)
	}

	return &signal.SemanticResult{
		Similarity:    raw.Similarity,
		SemanticMatch: raw.Similarity >= a.threshold,
		Threshold:     a.threshold,
	}, nil
}

// lexicalSimilarity is the Jaccard overlap of lowercase token sets. A
// crude stand-in for real meaning comparison; only used when the model
// cannot be reached.
func lexicalSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,!?;:\"'")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

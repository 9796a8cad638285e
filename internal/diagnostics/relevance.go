package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/signal"
)

// LLMRelevanceAnalyzer judges topic relevance with a hosted language
// model. Relevance is only assessed during free conversation practice,
// so unlike grammar and semantics it has no offline fallback.
type LLMRelevanceAnalyzer struct {
	provider llm.Provider
	cfg      AnalyzerConfig
}

// NewRelevanceAnalyzer creates an LLM-backed relevance analyzer.
func NewRelevanceAnalyzer(provider llm.Provider, cfg AnalyzerConfig) *LLMRelevanceAnalyzer {
	return &LLMRelevanceAnalyzer{provider: provider, cfg: cfg}
}

const relevanceSystemPrompt = `You judge whether a language learner's conversation
response addresses the topic they were given. Score relevance from 0.0 to 1.0
and classify it as on_topic, partially_relevant, or off_topic. A response that
answers the topic badly but on-subject is still on_topic; judge topical fit,
not quality.`

func (a *LLMRelevanceAnalyzer) AssessRelevance(ctx context.Context, sub Submission) (*signal.RelevanceResult, error) {
	ctx = llm.WithPurpose(ctx, "relevance-assessment")

	prompt := fmt.Sprintf("Conversation topic:\n%s\n\nLearner response:\n%s", sub.Topic, sub.LearnerText)
	resp, err := a.provider.Generate(ctx, llm.Request{
		System: relevanceSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		Schema:      RelevanceSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("relevance assessment failed: %w", err)
	}

	var result signal.RelevanceResult
	if err := json.Unmarshal(resp.Content, &result); err != nil {
		return nil, fmt.Errorf("parse relevance response: %w", err)
	}
	return &result, nil
}

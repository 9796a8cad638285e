package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/signal"
)

// AnalyzerConfig holds generation settings shared by the LLM analyzers.
type AnalyzerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultAnalyzerConfig returns sensible defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// LLMGrammarAnalyzer finds grammar mistakes with a hosted language model.
type LLMGrammarAnalyzer struct {
	provider llm.Provider
	cfg      AnalyzerConfig
}

// NewGrammarAnalyzer creates an LLM-backed grammar analyzer.
func NewGrammarAnalyzer(provider llm.Provider, cfg AnalyzerConfig) *LLMGrammarAnalyzer {
	return &LLMGrammarAnalyzer{provider: provider, cfg: cfg}
}

const grammarSystemPrompt = `You are a precise grammar checker for language learners.
Identify every grammatical mistake in the learner's production, give a minimal
correction for each, and score overall grammatical accuracy from 0 to 100.
Label purely stylistic advice with feedbackType "suggestion" so it is not
graded as a mistake. Error type and category labels must be lowercase
snake_case phenomena names such as verb_conjugation_present or article.`

var grammarPromptTmpl = template.Must(template.New("grammar").Parse(
	`Target language: {{.Language}}

Learner production:
{{.LearnerText}}
{{if .ExpectedText}}
The learner was asked to express:
{{.ExpectedText}}
{{end}}`))

func (a *LLMGrammarAnalyzer) AnalyzeGrammar(ctx context.Context, sub Submission) (*signal.GrammarResult, error) {
	ctx = llm.WithPurpose(ctx, "grammar-analysis")

	var buf bytes.Buffer
	if err := grammarPromptTmpl.Execute(&buf, sub); err != nil {
		return nil, fmt.Errorf("build grammar prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System: grammarSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buf.String()},
		},
		Schema:      GrammarSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("grammar analysis failed: %w", err)
	}

	var result signal.GrammarResult
	if err := json.Unmarshal(resp.Content, &result); err != nil {
		return nil, fmt.Errorf("parse grammar response: %w", err)
	}
	if result.Errors == nil {
		result.Errors = []signal.GrammarError{}
	}
	return &result, nil
}

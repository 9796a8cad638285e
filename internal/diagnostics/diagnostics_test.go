package diagnostics

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/signal"
)

func sub() Submission {
	return Submission{
		LearnerText:  "Yesterday I goed to the market",
		ExpectedText: "Yesterday I went to the market",
		Language:     "English",
		Topic:        "daily routines",
	}
}

func TestGrammarAnalyzerParsesResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{
			"correctedText": "Yesterday I went to the market",
			"errors": [{
				"type": "verb_tense",
				"category": "past_simple",
				"original": "goed",
				"correction": "went",
				"explanation": "irregular past form",
				"confidence": 0.95,
				"feedbackType": "error"
			}],
			"grammarScore": 85
		}`),
	})
	a := NewGrammarAnalyzer(mock, DefaultAnalyzerConfig())

	result, err := a.AnalyzeGrammar(context.Background(), sub())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.GrammarScore != 85 {
		t.Errorf("score = %v, want 85", result.GrammarScore)
	}
	if len(result.Errors) != 1 || result.Errors[0].Type != "verb_tense" {
		t.Errorf("errors = %+v", result.Errors)
	}

	req := mock.Calls[0]
	if req.Schema != GrammarSchema {
		t.Error("request should carry the grammar schema")
	}
	if !strings.Contains(req.Messages[0].Content, "goed") {
		t.Error("prompt should carry the learner production")
	}
	if !strings.Contains(req.Messages[0].Content, "English") {
		t.Error("prompt should carry the target language")
	}
}

func TestGrammarAnalyzerErrorsNeverNil(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"correctedText": "fine", "errors": [], "grammarScore": 100}`),
	})
	a := NewGrammarAnalyzer(mock, DefaultAnalyzerConfig())

	result, err := a.AnalyzeGrammar(context.Background(), sub())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Errors == nil {
		t.Error("errors must be an empty slice, not nil")
	}
}

func TestSemanticAnalyzerMatchThreshold(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"similarity": 0.65, "reasoning": "close but tense differs"}`),
	})
	a := NewSemanticAnalyzer(mock, DefaultAnalyzerConfig())

	result, err := a.CompareMeaning(context.Background(), sub())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if result.SemanticMatch {
		t.Error("0.65 below default threshold must not match")
	}
	if result.Threshold != DefaultSemanticThreshold {
		t.Errorf("threshold = %v", result.Threshold)
	}
	if result.FallbackUsed {
		t.Error("model path must not flag fallback")
	}
}

func TestSemanticAnalyzerFallback(t *testing.T) {
	// Empty mock queue: the model call fails.
	a := NewSemanticAnalyzer(llm.NewMockProvider(), DefaultAnalyzerConfig())

	s := sub()
	s.LearnerText = "the red car"
	s.ExpectedText = "the red car"
	result, err := a.CompareMeaning(context.Background(), s)
	if err != nil {
		t.Fatalf("fallback must absorb the model failure: %v", err)
	}
	if !result.FallbackUsed {
		t.Error("fallback flag must be set")
	}
	if result.Similarity != 1.0 || !result.SemanticMatch {
		t.Errorf("identical texts = %v/%v, want 1.0/match", result.Similarity, result.SemanticMatch)
	}
}

func TestLexicalSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"the cat", "the cat", 1.0},
		{"the cat", "a dog", 0},
		{"the big cat", "the cat", 2.0 / 3.0},
		{"", "anything", 0},
		{"Cat!", "cat", 1.0}, // case and punctuation ignored
	}
	for _, c := range cases {
		if got := lexicalSimilarity(c.a, c.b); got != c.want {
			t.Errorf("lexicalSimilarity(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestRelevanceAnalyzerParsesResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{
			"relevance_score": 0.4,
			"interpretation": "partially_relevant",
			"topic_analysis": "mentions the weekend but not the given topic"
		}`),
	})
	a := NewRelevanceAnalyzer(mock, DefaultAnalyzerConfig())

	result, err := a.AssessRelevance(context.Background(), sub())
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if result.Interpretation != signal.PartiallyRelevant {
		t.Errorf("interpretation = %q", result.Interpretation)
	}
	if result.RelevanceScore != 0.4 {
		t.Errorf("score = %v", result.RelevanceScore)
	}
}

func TestCachedGrammarAnalyzerHitsOnce(t *testing.T) {
	payload := json.RawMessage(`{"correctedText": "ok", "errors": [], "grammarScore": 90}`)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: payload},
		llm.MockResponse{Content: payload},
	)
	a := WithGrammarCache(NewGrammarAnalyzer(mock, DefaultAnalyzerConfig()), DefaultCacheTTL)

	for i := 0; i < 3; i++ {
		if _, err := a.AnalyzeGrammar(context.Background(), sub()); err != nil {
			t.Fatalf("analyze %d: %v", i, err)
		}
	}
	if len(mock.Calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(mock.Calls))
	}

	// A different submission misses the cache.
	other := sub()
	other.LearnerText = "something else entirely"
	if _, err := a.AnalyzeGrammar(context.Background(), other); err != nil {
		t.Fatalf("analyze other: %v", err)
	}
	if len(mock.Calls) != 2 {
		t.Errorf("provider called %d times, want 2", len(mock.Calls))
	}
}

func TestCachedSemanticSkipsFallbackResults(t *testing.T) {
	mock := llm.NewMockProvider() // always fails, always falls back
	a := WithSemanticCache(NewSemanticAnalyzer(mock, DefaultAnalyzerConfig()), time.Minute)

	for i := 0; i < 2; i++ {
		result, err := a.CompareMeaning(context.Background(), sub())
		if err != nil {
			t.Fatalf("compare %d: %v", i, err)
		}
		if !result.FallbackUsed {
			t.Fatal("expected fallback result")
		}
	}
	if len(mock.Calls) != 2 {
		t.Errorf("fallback results must not be cached: %d calls, want 2", len(mock.Calls))
	}
}

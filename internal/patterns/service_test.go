package patterns

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/signal"
	"github.com/linguakit/linguakit/internal/store"
)

type fakeLogRepo struct {
	logs []store.ErrorLog
	err  error
}

func (r *fakeLogRepo) Append(_ context.Context, logs []store.ErrorLog) error {
	r.logs = append(r.logs, logs...)
	return nil
}

func (r *fakeLogRepo) ForUser(_ context.Context, userID string) ([]store.ErrorLog, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []store.ErrorLog
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeAdaptationRepo struct {
	priorities []store.AdaptationPriority
	err        error
}

func (r *fakeAdaptationRepo) ForUser(_ context.Context, userID string) ([]store.AdaptationPriority, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []store.AdaptationPriority
	for _, p := range r.priorities {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeAdaptationRepo) Upsert(_ context.Context, p store.AdaptationPriority) error {
	r.priorities = append(r.priorities, p)
	return nil
}

func TestServiceEmptyHistory(t *testing.T) {
	svc := NewService(&fakeLogRepo{}, &fakeAdaptationRepo{}, nil)

	result, err := svc.Patterns(context.Background(), "nobody", ReadOptions{})
	if err != nil {
		t.Fatalf("empty history must not error: %v", err)
	}
	if result.Patterns == nil || len(result.Patterns) != 0 {
		t.Errorf("patterns = %v, want explicit empty slice", result.Patterns)
	}
	s := result.Stats
	if s.TotalErrors != 0 || s.PatternCount != 0 || s.FossilizingCount != 0 || s.Tier2PlusCount != 0 {
		t.Errorf("stats = %+v, want all zero", s)
	}
}

func TestServiceLogFetchErrorPropagates(t *testing.T) {
	svc := NewService(&fakeLogRepo{err: errors.New("db gone")}, &fakeAdaptationRepo{}, nil)

	if _, err := svc.Patterns(context.Background(), "u1", ReadOptions{}); err == nil {
		t.Fatal("log fetch failure must surface")
	}
}

func TestServiceAdaptationErrorDegrades(t *testing.T) {
	logRepo := &fakeLogRepo{logs: []store.ErrorLog{
		log("grammar", "article", trendNow.AddDate(0, 0, -1)),
	}}
	svc := NewService(logRepo, &fakeAdaptationRepo{err: errors.New("profile service down")}, nil)

	result, err := svc.patternsAt(context.Background(), "u1", ReadOptions{}, trendNow)
	if err != nil {
		t.Fatalf("adaptation failure must not fail the read: %v", err)
	}
	if result.Patterns[0].Tier != 0 {
		t.Errorf("degraded tier = %d, want 0", result.Patterns[0].Tier)
	}
}

func TestServiceAppliesPriorities(t *testing.T) {
	logRepo := &fakeLogRepo{logs: []store.ErrorLog{
		log("grammar", "article", trendNow.AddDate(0, 0, -1)),
	}}
	adaptRepo := &fakeAdaptationRepo{priorities: []store.AdaptationPriority{{
		UserID:     "u1",
		PatternKey: "grammar|article",
		Tier:       3,
		Trending:   "improving",
	}}}
	svc := NewService(logRepo, adaptRepo, nil)

	result, err := svc.patternsAt(context.Background(), "u1", ReadOptions{}, trendNow)
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	p := result.Patterns[0]
	if p.Tier != 3 || p.TrendDirection != Improving {
		t.Errorf("tier/trend = %d/%q, want 3/improving", p.Tier, p.TrendDirection)
	}
}

func TestServiceExcludesSuggestions(t *testing.T) {
	suggestion := log("grammar", "register", trendNow.AddDate(0, 0, -1))
	suggestion.FeedbackType = string(signal.FeedbackSuggestion)
	logRepo := &fakeLogRepo{logs: []store.ErrorLog{
		log("grammar", "article", trendNow.AddDate(0, 0, -1)),
		suggestion,
	}}
	svc := NewService(logRepo, &fakeAdaptationRepo{}, nil)

	result, err := svc.patternsAt(context.Background(), "u1", ReadOptions{}, trendNow)
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if result.Stats.TotalErrors != 1 || result.Stats.PatternCount != 1 {
		t.Errorf("totals = %d errors / %d patterns, want 1/1 with the suggestion excluded",
			result.Stats.TotalErrors, result.Stats.PatternCount)
	}
	p := result.Patterns[0]
	if p.Category != "article" || p.Frequency != 100 {
		t.Errorf("pattern = %q at %d%%, want article at 100%%", p.Category, p.Frequency)
	}
}

func TestServiceSuggestionOnlyHistoryIsEmpty(t *testing.T) {
	suggestion := log("grammar", "register", trendNow.AddDate(0, 0, -1))
	suggestion.FeedbackType = string(signal.FeedbackSuggestion)
	svc := NewService(&fakeLogRepo{logs: []store.ErrorLog{suggestion}}, &fakeAdaptationRepo{}, nil)

	result, err := svc.patternsAt(context.Background(), "u1", ReadOptions{}, trendNow)
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if len(result.Patterns) != 0 || result.Stats.TotalErrors != 0 {
		t.Errorf("got %d patterns / %d errors, want an empty report", len(result.Patterns), result.Stats.TotalErrors)
	}
}

func TestServiceSemanticFallback(t *testing.T) {
	logRepo := &fakeLogRepo{logs: []store.ErrorLog{
		log("grammar", "past_tense", trendNow.AddDate(0, 0, -1)),
		log("grammar", "verb_tense_past", trendNow.AddDate(0, 0, -1)),
	}}
	// Empty mock script: every call fails with provider unavailable.
	semantic := NewSemanticClusterer(llm.NewMockProvider())
	svc := NewService(logRepo, &fakeAdaptationRepo{}, semantic)

	result, err := svc.patternsAt(context.Background(), "u1", ReadOptions{Semantic: true}, trendNow)
	if err != nil {
		t.Fatalf("semantic failure must degrade, not fail: %v", err)
	}
	if len(result.Patterns) != 2 {
		t.Errorf("got %d patterns, want 2 exact-key clusters", len(result.Patterns))
	}
}

func TestServiceSemanticMergesCategories(t *testing.T) {
	logRepo := &fakeLogRepo{logs: []store.ErrorLog{
		log("grammar", "past_tense", trendNow.AddDate(0, 0, -1)),
		log("grammar", "verb_tense_past", trendNow.AddDate(0, 0, -1)),
	}}
	semantic := NewSemanticClusterer(llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"groups":[{"errorType":"grammar","label":"verb_tense","members":["past_tense","verb_tense_past"]}]}`),
	}))
	svc := NewService(logRepo, &fakeAdaptationRepo{}, semantic)

	result, err := svc.patternsAt(context.Background(), "u1", ReadOptions{Semantic: true}, trendNow)
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if len(result.Patterns) != 1 {
		t.Fatalf("got %d patterns, want 1 merged cluster", len(result.Patterns))
	}
	p := result.Patterns[0]
	if p.Category != "verb_tense" || p.Count != 2 {
		t.Errorf("merged pattern = %q/%d, want verb_tense/2", p.Category, p.Count)
	}
}

func TestSemanticClustererThresholdOverride(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"groups":[]}`),
	})
	logRepo := &fakeLogRepo{logs: []store.ErrorLog{
		log("grammar", "a", trendNow.AddDate(0, 0, -1)),
		log("grammar", "b", trendNow.AddDate(0, 0, -1)),
	}}
	svc := NewService(logRepo, &fakeAdaptationRepo{}, NewSemanticClusterer(mock))

	if _, err := svc.patternsAt(context.Background(), "u1", ReadOptions{Semantic: true, Threshold: 0.9}, trendNow); err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("got %d provider calls, want 1", len(mock.Calls))
	}
	prompt := mock.Calls[0].Messages[0].Content
	if want := "0.90"; !strings.Contains(prompt, want) {
		t.Errorf("prompt should carry the overridden threshold %s:\n%s", want, prompt)
	}
}

func TestSemanticClustererSkipsSingleCategories(t *testing.T) {
	mock := llm.NewMockProvider()
	sc := NewSemanticClusterer(mock)

	clusters, err := sc.Cluster(context.Background(), []store.ErrorLog{
		log("grammar", "article", time.Now().UTC()),
		log("semantic", "meaning", time.Now().UTC()),
	})
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("nothing to merge, provider should not be called")
	}
	if len(clusters) != 2 {
		t.Errorf("got %d clusters, want 2", len(clusters))
	}
}

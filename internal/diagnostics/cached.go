package diagnostics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/linguakit/linguakit/internal/cache"
	"github.com/linguakit/linguakit/internal/signal"
)

// DefaultCacheTTL is how long an identical submission reuses its analysis.
const DefaultCacheTTL = 15 * time.Minute

// submissionKey fingerprints a submission for cache lookup.
func submissionKey(purpose string, sub Submission) string {
	h := sha256.Sum256([]byte(strings.Join([]string{
		purpose, sub.Language, sub.Topic, sub.ExpectedText, sub.LearnerText,
	}, "\x1f")))
	return hex.EncodeToString(h[:])
}

// CachedGrammarAnalyzer wraps a GrammarAnalyzer with a TTL cache so
// re-grading an unchanged submission does not re-run the model.
type CachedGrammarAnalyzer struct {
	inner GrammarAnalyzer
	cache *cache.TTLCache[*signal.GrammarResult]
}

// WithGrammarCache decorates an analyzer with caching.
func WithGrammarCache(inner GrammarAnalyzer, ttl time.Duration) *CachedGrammarAnalyzer {
	return &CachedGrammarAnalyzer{
		inner: inner,
		cache: cache.New[*signal.GrammarResult](ttl),
	}
}

func (a *CachedGrammarAnalyzer) AnalyzeGrammar(ctx context.Context, sub Submission) (*signal.GrammarResult, error) {
	key := submissionKey("grammar", sub)
	if result, ok := a.cache.Get(key); ok {
		return result, nil
	}
	result, err := a.inner.AnalyzeGrammar(ctx, sub)
	if err != nil {
		return nil, err
	}
	a.cache.Set(key, result)
	return result, nil
}

// CachedSemanticAnalyzer wraps a SemanticAnalyzer with a TTL cache.
// Fallback results are not cached; the next call retries the model.
type CachedSemanticAnalyzer struct {
	inner SemanticAnalyzer
	cache *cache.TTLCache[*signal.SemanticResult]
}

// WithSemanticCache decorates an analyzer with caching.
func WithSemanticCache(inner SemanticAnalyzer, ttl time.Duration) *CachedSemanticAnalyzer {
	return &CachedSemanticAnalyzer{
		inner: inner,
		cache: cache.New[*signal.SemanticResult](ttl),
	}
}

func (a *CachedSemanticAnalyzer) CompareMeaning(ctx context.Context, sub Submission) (*signal.SemanticResult, error) {
	key := submissionKey("semantic", sub)
	if result, ok := a.cache.Get(key); ok {
		return result, nil
	}
	result, err := a.inner.CompareMeaning(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !result.FallbackUsed {
		a.cache.Set(key, result)
	}
	return result, nil
}

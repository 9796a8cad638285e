package patterns

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linguakit/linguakit/internal/signal"
	"github.com/linguakit/linguakit/internal/store"
)

// Service reads a user's error history and derives their pattern report.
type Service struct {
	logs        store.ErrorLogRepo
	adaptations store.AdaptationRepo
	semantic    *SemanticClusterer // nil when no provider is configured
}

// NewService wires the pattern engine. semantic may be nil; reads then
// always use exact clustering.
func NewService(logs store.ErrorLogRepo, adaptations store.AdaptationRepo, semantic *SemanticClusterer) *Service {
	return &Service{logs: logs, adaptations: adaptations, semantic: semantic}
}

// ReadOptions tune one pattern read.
type ReadOptions struct {
	// Semantic enables the model-backed clusterer when the service has
	// one. Failures fall back to exact clustering.
	Semantic bool

	// Threshold overrides the semantic similarity threshold when > 0.
	Threshold float64
}

// Result is the pattern report for one user.
type Result struct {
	Patterns []ErrorPattern `json:"patterns"`
	Stats    Stats          `json:"stats"`
}

// Patterns fetches the user's error logs and adaptation priorities in
// parallel, clusters, and assembles the ranked report. Suggestion-typed
// occurrences are excluded before clustering. A user with no history
// gets an empty report, not an error. Adaptation fetch failures degrade
// to local tier/trend computation.
func (s *Service) Patterns(ctx context.Context, userID string, opts ReadOptions) (*Result, error) {
	return s.patternsAt(ctx, userID, opts, time.Now().UTC())
}

func (s *Service) patternsAt(ctx context.Context, userID string, opts ReadOptions, now time.Time) (*Result, error) {
	var (
		logs       []store.ErrorLog
		priorities []store.AdaptationPriority
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.logs.ForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch error logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		priorities, err = s.adaptations.ForUser(gctx, userID)
		if err != nil {
			zap.L().Warn("adaptation priorities unavailable, using local tier and trend",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			priorities = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logs = gradedErrors(logs)
	if len(logs) == 0 {
		return &Result{
			Patterns: []ErrorPattern{},
			Stats: Stats{
				ByType:     map[string]int{},
				ByModality: map[string]int{},
			},
		}, nil
	}

	clusters := s.clusterLogs(ctx, logs, opts)
	patterns, stats := Assemble(clusters, logs, store.PriorityIndex(priorities), now)
	return &Result{Patterns: patterns, Stats: stats}, nil
}

// gradedErrors drops suggestion-typed occurrences from a history read.
// Suggestions are stylistic notes, not mistakes; letting them into the
// clusters would inflate every frequency and the error total.
func gradedErrors(logs []store.ErrorLog) []store.ErrorLog {
	kept := make([]store.ErrorLog, 0, len(logs))
	for _, l := range logs {
		if l.FeedbackType == string(signal.FeedbackSuggestion) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// clusterLogs applies the requested strategy. Semantic clustering that
// errors out, times out, or is not configured degrades to exact keys so
// a read never fails on clustering.
func (s *Service) clusterLogs(ctx context.Context, logs []store.ErrorLog, opts ReadOptions) []Cluster {
	if opts.Semantic && s.semantic != nil {
		sc := *s.semantic
		if opts.Threshold > 0 {
			sc.Threshold = opts.Threshold
		}
		clusters, err := sc.Cluster(ctx, logs)
		if err == nil {
			return clusters
		}
		zap.L().Warn("semantic clustering failed, falling back to exact keys",
			zap.Error(err),
		)
	}

	clusters, _ := ExactClusterer{}.Cluster(ctx, logs)
	return clusters
}

// Package patterns turns a learner's accumulated error history into a
// ranked list of named error patterns: clustered, trended over the last
// five weeks, tiered for intervention, and annotated with interlanguage
// pedagogy. Patterns are a view recomputed on every read, never stored.
package patterns

import (
	"context"

	"github.com/linguakit/linguakit/internal/store"
)

// Cluster is one group of error logs sharing a pattern identity.
type Cluster struct {
	// Key is "{errorType}|{category}". Exact clustering uses the raw
	// category; semantic clustering may substitute a merged label.
	Key       string
	ErrorType string
	Category  string
	Logs      []store.ErrorLog
}

// Clusterer groups a user's error logs. Implementations must keep every
// input log in exactly one cluster.
type Clusterer interface {
	Cluster(ctx context.Context, logs []store.ErrorLog) ([]Cluster, error)
}

// ClusterKey returns the exact grouping key for a log entry. Empty
// categories collapse to "general" so uncategorized errors still cluster.
func ClusterKey(l store.ErrorLog) string {
	return l.ErrorType + "|" + categoryOrGeneral(l.Category)
}

func categoryOrGeneral(category string) string {
	if category == "" {
		return "general"
	}
	return category
}

// ExactClusterer groups logs by their exact (errorType, category) key.
// Deterministic and always available; the default strategy.
type ExactClusterer struct{}

func (ExactClusterer) Cluster(_ context.Context, logs []store.ErrorLog) ([]Cluster, error) {
	var clusters []Cluster
	index := make(map[string]int)

	for _, l := range logs {
		key := ClusterKey(l)
		i, ok := index[key]
		if !ok {
			i = len(clusters)
			index[key] = i
			clusters = append(clusters, Cluster{
				Key:       key,
				ErrorType: l.ErrorType,
				Category:  categoryOrGeneral(l.Category),
			})
		}
		clusters[i].Logs = append(clusters[i].Logs, l)
	}

	return clusters, nil
}

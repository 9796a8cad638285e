package patterns

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/store"
)

const (
	// DefaultSimilarityThreshold is how close two category labels must be
	// before the model may merge them into one pattern.
	DefaultSimilarityThreshold = 0.65

	// DefaultMinClusterSize is the smallest merged group the model's
	// output is allowed to produce. Smaller groups revert to exact keys.
	DefaultMinClusterSize = 1

	// DefaultSemanticTimeout bounds the single external call. A slow
	// model degrades the read to exact clustering, it never blocks it.
	DefaultSemanticTimeout = 15 * time.Second
)

var clusterSchema = &llm.Schema{
	Name:        "category-groups",
	Description: "Groups of error category labels that describe the same underlying learner phenomenon",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"groups": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"errorType": map[string]any{"type": "string"},
						"label":     map[string]any{"type": "string"},
						"members": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"errorType", "label", "members"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"groups"},
		"additionalProperties": false,
	},
}

type categoryGroups struct {
	Groups []struct {
		ErrorType string   `json:"errorType"`
		Label     string   `json:"label"`
		Members   []string `json:"members"`
	} `json:"groups"`
}

// SemanticClusterer asks a language model to merge category labels that
// name the same interlanguage phenomenon (e.g. "past_tense" and
// "verb_tense_past") before exact grouping. Categories the model leaves
// out, and merges below MinClusterSize, keep their exact keys.
//
// Errors and timeouts propagate to the caller, which falls back to
// ExactClusterer. This type never degrades silently on its own.
type SemanticClusterer struct {
	Provider       llm.Provider
	Threshold      float64
	MinClusterSize int
	Timeout        time.Duration
}

// NewSemanticClusterer returns a clusterer with the default threshold,
// minimum cluster size, and timeout.
func NewSemanticClusterer(p llm.Provider) *SemanticClusterer {
	return &SemanticClusterer{
		Provider:       p,
		Threshold:      DefaultSimilarityThreshold,
		MinClusterSize: DefaultMinClusterSize,
		Timeout:        DefaultSemanticTimeout,
	}
}

func (c *SemanticClusterer) Cluster(ctx context.Context, logs []store.ErrorLog) ([]Cluster, error) {
	if len(logs) == 0 {
		return nil, nil
	}

	categories := distinctCategories(logs)
	if singleCategoryPerType(categories) {
		// Nothing to merge; exact grouping is already the answer.
		return ExactClusterer{}.Cluster(ctx, logs)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultSemanticTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, "semantic-clustering")

	resp, err := c.Provider.Generate(ctx, llm.Request{
		System:    clusterSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: c.clusterPrompt(categories)}},
		Schema:    clusterSchema,
		MaxTokens: 2048,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic clustering: %w", err)
	}

	var groups categoryGroups
	if err := json.Unmarshal(resp.Content, &groups); err != nil {
		return nil, fmt.Errorf("decode category groups: %w", err)
	}

	return c.applyGroups(logs, categories, groups), nil
}

const clusterSystemPrompt = `You group error category labels from a language-learning
diagnosis system. Labels within the same error type that describe the same
underlying learner phenomenon belong in one group with a short canonical
label. Never group labels across different error types, and never invent
members that were not given to you.`

func (c *SemanticClusterer) clusterPrompt(categories map[string][]string) string {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Merge labels only when their semantic similarity is at least %.2f. Labels that stand alone should be omitted from the output.\n", threshold)

	types := make([]string, 0, len(categories))
	for t := range categories {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&b, "\nError type %q categories:\n", t)
		for _, cat := range categories[t] {
			fmt.Fprintf(&b, "- %s\n", cat)
		}
	}
	return b.String()
}

// distinctCategories collects the distinct categories per error type in
// first-appearance order.
func distinctCategories(logs []store.ErrorLog) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]bool)
	for _, l := range logs {
		cat := categoryOrGeneral(l.Category)
		key := l.ErrorType + "|" + cat
		if seen[key] {
			continue
		}
		seen[key] = true
		out[l.ErrorType] = append(out[l.ErrorType], cat)
	}
	return out
}

func singleCategoryPerType(categories map[string][]string) bool {
	for _, cats := range categories {
		if len(cats) > 1 {
			return false
		}
	}
	return true
}

// applyGroups rewrites each log's grouping key per the model's merges,
// then groups exactly. Invalid merges (unknown members, cross-type
// members, groups below the minimum size) are dropped, leaving those
// logs on their exact keys, so every input log lands in one cluster
// regardless of model output quality.
func (c *SemanticClusterer) applyGroups(logs []store.ErrorLog, categories map[string][]string, groups categoryGroups) []Cluster {
	minSize := c.MinClusterSize
	if minSize <= 0 {
		minSize = DefaultMinClusterSize
	}

	known := make(map[string]bool)
	for t, cats := range categories {
		for _, cat := range cats {
			known[t+"|"+cat] = true
		}
	}

	// exact key → merged label
	merged := make(map[string]string)
	for _, g := range groups.Groups {
		if len(g.Members) < minSize || len(g.Members) < 2 || g.Label == "" {
			continue
		}
		valid := true
		for _, m := range g.Members {
			if !known[g.ErrorType+"|"+m] {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		for _, m := range g.Members {
			merged[g.ErrorType+"|"+m] = g.Label
		}
	}

	var clusters []Cluster
	index := make(map[string]int)
	for _, l := range logs {
		category := categoryOrGeneral(l.Category)
		if label, ok := merged[l.ErrorType+"|"+category]; ok {
			category = label
		}
		key := l.ErrorType + "|" + category
		i, ok := index[key]
		if !ok {
			i = len(clusters)
			index[key] = i
			clusters = append(clusters, Cluster{
				Key:       key,
				ErrorType: l.ErrorType,
				Category:  category,
			})
		}
		clusters[i].Logs = append(clusters[i].Logs, l)
	}
	return clusters
}

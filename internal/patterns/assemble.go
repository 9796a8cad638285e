package patterns

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/linguakit/linguakit/internal/interlang"
	"github.com/linguakit/linguakit/internal/signal"
	"github.com/linguakit/linguakit/internal/store"
)

const maxExamples = 5

// ErrorPattern is one ranked, annotated error cluster. It is recomputed
// from the raw logs on every read; ID is the pattern's rank in the
// current result, not a durable key.
type ErrorPattern struct {
	ID             int        `json:"id"`
	ErrorType      string     `json:"errorType"`
	Category       string     `json:"category"`
	Count          int        `json:"count"`
	Frequency      int        `json:"frequency"` // 0-100, share of all errors
	IsFossilizing  bool       `json:"isFossilizing"`
	Tier           int        `json:"tier"` // 0-3
	TrendDirection Direction  `json:"trendDirection"`
	Trend          []*float64 `json:"trend"`
	TrendLabels    []string   `json:"trendLabels"`
	Examples       []string   `json:"examples"`

	InterventionCount     int        `json:"interventionCount"`
	LastInterventionAt    *time.Time `json:"lastInterventionAt,omitempty"`
	InterventionSuccesses int        `json:"interventionSuccesses"`

	InterlanguageRule string `json:"interlanguageRule"`
	TransferSource    string `json:"transferSource"`
	Intervention      string `json:"intervention"`
	TheoreticalBasis  string `json:"theoreticalBasis"`
}

// EstimatedCorrectUses infers how many times the learner likely produced
// this form correctly, from the error share alone. A display heuristic,
// not a measured count; it returns 0 when frequency gives no signal.
func (p ErrorPattern) EstimatedCorrectUses() int {
	if p.Frequency <= 0 {
		return 0
	}
	f := float64(p.Frequency) / 100
	return int(math.Round(float64(p.Count) * (1/f - 1)))
}

// Stats aggregates the full pattern set for one user.
type Stats struct {
	TotalErrors      int            `json:"totalErrors"`
	PatternCount     int            `json:"patternCount"`
	FossilizingCount int            `json:"fossilizingCount"`
	Tier2PlusCount   int            `json:"tier2PlusCount"`
	ByType           map[string]int `json:"byType"`
	ByModality       map[string]int `json:"byModality"`
}

// Assemble builds the ranked pattern list and aggregate stats from the
// clustered logs. Tier, long-run trend, and intervention counters come
// from the adaptation priorities when a cluster has one; otherwise tier
// is 0 and the trend falls back to the local two-window computation.
// Every log belongs to exactly one pattern, so pattern counts sum to
// the total error count.
func Assemble(clusters []Cluster, allLogs []store.ErrorLog, priorities map[string]store.AdaptationPriority, now time.Time) ([]ErrorPattern, Stats) {
	stats := Stats{
		TotalErrors:  len(allLogs),
		PatternCount: len(clusters),
		ByType:       make(map[string]int),
		ByModality:   make(map[string]int),
	}
	for _, l := range allLogs {
		stats.ByType[l.ErrorType]++
		stats.ByModality[l.InputType]++
	}

	patterns := make([]ErrorPattern, 0, len(clusters))
	for _, c := range clusters {
		p := assembleOne(c, allLogs, priorities, now)
		if p.IsFossilizing {
			stats.FossilizingCount++
		}
		if p.Tier >= 2 {
			stats.Tier2PlusCount++
		}
		patterns = append(patterns, p)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].ErrorType+"|"+patterns[i].Category <
			patterns[j].ErrorType+"|"+patterns[j].Category
	})
	for i := range patterns {
		patterns[i].ID = i
	}

	return patterns, stats
}

func assembleOne(c Cluster, allLogs []store.ErrorLog, priorities map[string]store.AdaptationPriority, now time.Time) ErrorPattern {
	count := len(c.Logs)
	frequency := 0
	if len(allLogs) > 0 {
		frequency = int(math.Round(float64(count) / float64(len(allLogs)) * 100))
	}

	trend, labels := WeeklyTrend(c.Logs, allLogs, now)
	note := interlang.Lookup(signal.ErrorType(c.ErrorType), c.Category)

	p := ErrorPattern{
		ErrorType:         c.ErrorType,
		Category:          c.Category,
		Count:             count,
		Frequency:         frequency,
		IsFossilizing:     frequency >= 70,
		Trend:             trend,
		TrendLabels:       labels,
		Examples:          formatExamples(c.Logs),
		InterlanguageRule: note.Rule,
		TransferSource:    note.TransferSource,
		Intervention:      note.Intervention,
		TheoreticalBasis:  note.TheoreticalBasis,
	}

	if prio, ok := priorities[adaptationKey(c.ErrorType, c.Category)]; ok {
		p.Tier = prio.Tier
		p.TrendDirection = Direction(prio.Trending)
		p.InterventionCount = prio.InterventionCount
		p.LastInterventionAt = prio.LastInterventionAt
		p.InterventionSuccesses = prio.InterventionSuccesses
	} else {
		p.TrendDirection = LocalTrend(c.Logs, now)
	}

	return p
}

// adaptationKey matches the key format the external adaptation policy
// writes: the category is lowercased, the error type is not.
func adaptationKey(errorType, category string) string {
	return errorType + "|" + strings.ToLower(category)
}

func formatExamples(logs []store.ErrorLog) []string {
	n := len(logs)
	if n > maxExamples {
		n = maxExamples
	}
	out := make([]string, 0, n)
	for _, l := range logs[:n] {
		out = append(out, formatExample(l))
	}
	return out
}

func formatExample(l store.ErrorLog) string {
	source := "exercise"
	if l.Context == "chaos_window" {
		source = "chaos window"
	}
	if l.CorrectForm != "" {
		return fmt.Sprintf("%q should be %q (%s)", l.LearnerProduction, l.CorrectForm, source)
	}
	return fmt.Sprintf("%q (%s)", l.LearnerProduction, source)
}

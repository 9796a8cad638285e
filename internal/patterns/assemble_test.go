package patterns

import (
	"context"
	"strings"
	"testing"

	"github.com/linguakit/linguakit/internal/store"
)

func mustCluster(t *testing.T, logs []store.ErrorLog) []Cluster {
	t.Helper()
	clusters, err := ExactClusterer{}.Cluster(context.Background(), logs)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	return clusters
}

func TestAssembleCountsSumToTotal(t *testing.T) {
	logs := []store.ErrorLog{
		log("grammar", "verb_tense", trendNow.AddDate(0, 0, -1)),
		log("grammar", "verb_tense", trendNow.AddDate(0, 0, -2)),
		log("grammar", "article", trendNow.AddDate(0, 0, -3)),
		log("semantic", "meaning", trendNow.AddDate(0, 0, -20)),
	}

	patterns, stats := Assemble(mustCluster(t, logs), logs, nil, trendNow)

	sum := 0
	for _, p := range patterns {
		sum += p.Count
	}
	if sum != stats.TotalErrors {
		t.Errorf("sum(count) = %d, total = %d", sum, stats.TotalErrors)
	}
	if stats.TotalErrors != 4 || stats.PatternCount != 3 {
		t.Errorf("totals = %d/%d, want 4/3", stats.TotalErrors, stats.PatternCount)
	}
}

func TestAssembleFrequencyAndFossilization(t *testing.T) {
	var logs []store.ErrorLog
	for i := 0; i < 7; i++ {
		logs = append(logs, log("grammar", "verb_tense", trendNow.AddDate(0, 0, -1)))
	}
	for i := 0; i < 3; i++ {
		logs = append(logs, log("grammar", "article", trendNow.AddDate(0, 0, -1)))
	}

	patterns, stats := Assemble(mustCluster(t, logs), logs, nil, trendNow)

	top := patterns[0]
	if top.Frequency != 70 {
		t.Errorf("frequency = %d, want 70", top.Frequency)
	}
	if !top.IsFossilizing {
		t.Error("70%% frequency must be fossilizing")
	}
	if patterns[1].Frequency != 30 || patterns[1].IsFossilizing {
		t.Errorf("minor pattern = %d%%/%v", patterns[1].Frequency, patterns[1].IsFossilizing)
	}
	if stats.FossilizingCount != 1 {
		t.Errorf("fossilizing count = %d, want 1", stats.FossilizingCount)
	}
}

func TestAssembleSortedByFrequencyDesc(t *testing.T) {
	var logs []store.ErrorLog
	logs = append(logs, log("grammar", "article", trendNow.AddDate(0, 0, -1)))
	for i := 0; i < 4; i++ {
		logs = append(logs, log("grammar", "verb_tense", trendNow.AddDate(0, 0, -1)))
	}
	for i := 0; i < 2; i++ {
		logs = append(logs, log("semantic", "meaning", trendNow.AddDate(0, 0, -1)))
	}

	patterns, _ := Assemble(mustCluster(t, logs), logs, nil, trendNow)
	for i := 1; i < len(patterns); i++ {
		if patterns[i].Frequency > patterns[i-1].Frequency {
			t.Fatalf("patterns not sorted: %d%% after %d%%",
				patterns[i].Frequency, patterns[i-1].Frequency)
		}
	}
	if patterns[0].Category != "verb_tense" {
		t.Errorf("top pattern = %q, want verb_tense", patterns[0].Category)
	}
	for i, p := range patterns {
		if p.ID != i {
			t.Errorf("pattern %d has ID %d", i, p.ID)
		}
	}
}

func TestAssembleAdaptationOverlay(t *testing.T) {
	logs := []store.ErrorLog{
		log("grammar", "Verb_Tense", trendNow.AddDate(0, 0, -1)),
		log("grammar", "article", trendNow.AddDate(0, 0, -1)),
	}
	at := trendNow.AddDate(0, 0, -5)
	priorities := map[string]store.AdaptationPriority{
		"grammar|verb_tense": {
			PatternKey:            "grammar|verb_tense",
			Tier:                  2,
			Trending:              "worsening",
			InterventionCount:     3,
			LastInterventionAt:    &at,
			InterventionSuccesses: 1,
		},
	}

	patterns, stats := Assemble(mustCluster(t, logs), logs, priorities, trendNow)

	var adapted, plain *ErrorPattern
	for i := range patterns {
		if patterns[i].Category == "Verb_Tense" {
			adapted = &patterns[i]
		} else {
			plain = &patterns[i]
		}
	}
	if adapted == nil || plain == nil {
		t.Fatal("expected both clusters in output")
	}

	// The adaptation key lowercases the category, so the mixed-case
	// cluster still matches its priority record.
	if adapted.Tier != 2 || adapted.TrendDirection != Worsening {
		t.Errorf("adapted tier/trend = %d/%q", adapted.Tier, adapted.TrendDirection)
	}
	if adapted.InterventionCount != 3 || adapted.InterventionSuccesses != 1 {
		t.Errorf("intervention counters = %d/%d", adapted.InterventionCount, adapted.InterventionSuccesses)
	}
	if adapted.LastInterventionAt == nil || !adapted.LastInterventionAt.Equal(at) {
		t.Errorf("last intervention = %v", adapted.LastInterventionAt)
	}

	// No priority record: tier 0 and the local trend computation.
	if plain.Tier != 0 {
		t.Errorf("plain tier = %d, want 0", plain.Tier)
	}
	if plain.TrendDirection != Stable {
		t.Errorf("plain trend = %q, want local stable", plain.TrendDirection)
	}

	if stats.Tier2PlusCount != 1 {
		t.Errorf("tier2+ count = %d, want 1", stats.Tier2PlusCount)
	}
}

func TestAssembleExamples(t *testing.T) {
	var logs []store.ErrorLog
	for i := 0; i < 7; i++ {
		l := log("grammar", "article", trendNow.AddDate(0, 0, -1))
		l.LearnerProduction = "a apple"
		l.CorrectForm = "an apple"
		if i == 0 {
			l.Context = "chaos_window"
		}
		logs = append(logs, l)
	}

	patterns, _ := Assemble(mustCluster(t, logs), logs, nil, trendNow)
	if got := len(patterns[0].Examples); got != 5 {
		t.Fatalf("got %d examples, want capped at 5", got)
	}
	if !strings.Contains(patterns[0].Examples[0], "chaos window") {
		t.Errorf("first example %q should carry chaos window label", patterns[0].Examples[0])
	}
	if !strings.Contains(patterns[0].Examples[1], "exercise") {
		t.Errorf("second example %q should carry exercise label", patterns[0].Examples[1])
	}
	if !strings.Contains(patterns[0].Examples[0], "an apple") {
		t.Errorf("example %q should include the correction", patterns[0].Examples[0])
	}
}

func TestAssembleInterlanguageFields(t *testing.T) {
	logs := []store.ErrorLog{log("grammar", "verb_conjugation_present", trendNow.AddDate(0, 0, -1))}

	patterns, _ := Assemble(mustCluster(t, logs), logs, nil, trendNow)
	p := patterns[0]
	if p.InterlanguageRule == "" || p.TransferSource == "" || p.Intervention == "" || p.TheoreticalBasis == "" {
		t.Errorf("pedagogical fields must never be empty: %+v", p)
	}
}

func TestAssembleByTypeAndModality(t *testing.T) {
	g := log("grammar", "article", trendNow.AddDate(0, 0, -1))
	p := log("pronunciation", "phonology", trendNow.AddDate(0, 0, -1))
	p.InputType = "speech"

	_, stats := Assemble(mustCluster(t, []store.ErrorLog{g, g, p}), []store.ErrorLog{g, g, p}, nil, trendNow)
	if stats.ByType["grammar"] != 2 || stats.ByType["pronunciation"] != 1 {
		t.Errorf("byType = %v", stats.ByType)
	}
	if stats.ByModality["text"] != 2 || stats.ByModality["speech"] != 1 {
		t.Errorf("byModality = %v", stats.ByModality)
	}
}

func TestEstimatedCorrectUses(t *testing.T) {
	p := ErrorPattern{Count: 5, Frequency: 20}
	// 5 * (1/0.2 - 1) = 20
	if got := p.EstimatedCorrectUses(); got != 20 {
		t.Errorf("estimated correct uses = %d, want 20", got)
	}

	p.Frequency = 0
	if got := p.EstimatedCorrectUses(); got != 0 {
		t.Errorf("zero frequency must not divide: got %d", got)
	}
}

func TestWeeklyTrendAttachedToPattern(t *testing.T) {
	logs := []store.ErrorLog{log("grammar", "article", trendNow.AddDate(0, 0, -1))}
	patterns, _ := Assemble(mustCluster(t, logs), logs, nil, trendNow)

	p := patterns[0]
	if len(p.Trend) != 5 || len(p.TrendLabels) != 5 {
		t.Fatalf("trend shape = %d/%d, want 5/5", len(p.Trend), len(p.TrendLabels))
	}
	if p.TrendLabels[4] != "This week" {
		t.Errorf("last label = %q, want current week last", p.TrendLabels[4])
	}
	if p.Trend[4] == nil || *p.Trend[4] != 1.0 {
		t.Errorf("this week ratio = %v, want 1.0", p.Trend[4])
	}
}

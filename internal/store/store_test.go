package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestErrorLogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ErrorLogRepo()

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	logs := []ErrorLog{
		{UserID: "u1", SessionID: "s1", ErrorType: "grammar", Category: "verb_tense",
			Pattern: "verb_tense", LearnerProduction: "he go", CorrectForm: "he goes",
			Confidence: 0.9, Severity: "high", InputType: "text", FeedbackType: "error",
			CreatedAt: base},
		{UserID: "u1", SessionID: "s1", ErrorType: "pronunciation", Category: "phonology",
			Pattern: "th_mispronunciation", LearnerProduction: "sink", CorrectForm: "think",
			Confidence: 0.7, Severity: "medium", InputType: "speech", FeedbackType: "error",
			CreatedAt: base.Add(time.Minute)},
		{UserID: "u2", SessionID: "s9", ErrorType: "grammar", Category: "article",
			Confidence: 0.5, Severity: "low", InputType: "text", FeedbackType: "error",
			CreatedAt: base},
	}

	if err := repo.Append(ctx, logs); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.ForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d logs for u1, want 2", len(got))
	}
	if got[0].Category != "verb_tense" || got[1].Category != "phonology" {
		t.Errorf("logs out of order: %q, %q", got[0].Category, got[1].Category)
	}
	if got[0].CorrectForm != "he goes" {
		t.Errorf("correct form = %q, want %q", got[0].CorrectForm, "he goes")
	}

	empty, err := repo.ForUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("query empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d logs for unknown user, want 0", len(empty))
	}
}

func TestDedupe(t *testing.T) {
	a := ErrorLog{UserID: "u", SessionID: "s", ErrorType: "grammar",
		Category: "article", Context: "exercise", CorrectForm: "the cat"}
	b := a // identical fingerprint
	c := a
	c.Category = "preposition"
	d := a
	d.SessionID = "s2" // different session, kept

	out := Dedupe([]ErrorLog{a, b, c, d})
	if len(out) != 3 {
		t.Fatalf("Dedupe kept %d, want 3", len(out))
	}
	if out[0].Category != "article" || out[1].Category != "preposition" {
		t.Error("Dedupe must preserve first-appearance order")
	}
}

func TestAdaptationRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.AdaptationRepo()

	at := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	p := AdaptationPriority{
		UserID:                "u1",
		PatternKey:            "grammar|verb_tense",
		Tier:                  2,
		Trending:              "worsening",
		InterventionCount:     3,
		LastInterventionAt:    &at,
		InterventionSuccesses: 1,
	}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Second upsert replaces.
	p.Tier = 3
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	got, err := repo.ForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d priorities, want 1", len(got))
	}
	if got[0].Tier != 3 || got[0].Trending != "worsening" {
		t.Errorf("got tier %d trending %q", got[0].Tier, got[0].Trending)
	}
	if got[0].LastInterventionAt == nil || !got[0].LastInterventionAt.Equal(at) {
		t.Errorf("last intervention = %v, want %v", got[0].LastInterventionAt, at)
	}

	idx := PriorityIndex(got)
	if _, ok := idx["grammar|verb_tense"]; !ok {
		t.Error("PriorityIndex missing pattern key")
	}
}

func TestReportRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ReportRepo()

	if err := repo.Save(ctx, ReportRecord{
		UserID: "u1", SessionID: "s1", Modality: "text",
		OverallScore: 80, ErrorCount: 2,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ForUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].OverallScore != 80 {
		t.Fatalf("unexpected reports: %+v", got)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.ErrorLogRepo().Append(ctx, []ErrorLog{
		{UserID: "u1", SessionID: "s1", ErrorType: "grammar", Category: "article"},
	})
	_ = s.ReportRepo().Save(ctx, ReportRecord{UserID: "u1", SessionID: "s1", Modality: "text"})

	if err := s.Reset(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	logs, _ := s.ErrorLogRepo().ForUser(ctx, "u1")
	if len(logs) != 0 {
		t.Errorf("reset left %d error logs", len(logs))
	}
}

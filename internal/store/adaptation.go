package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AdaptationPriority is the externally computed escalation state for one
// error pattern. Consumed read-only by the pattern engine; its absence for
// a cluster must never break pattern computation.
type AdaptationPriority struct {
	UserID                string
	PatternKey            string // "{errorType}|{lowercase category}"
	Tier                  int    // 0-3
	Trending              string // improving | stable | worsening
	InterventionCount     int
	LastInterventionAt    *time.Time
	InterventionSuccesses int
}

// AdaptationRepo provides access to adaptation priorities.
type AdaptationRepo interface {
	// ForUser returns all priorities recorded for a user.
	ForUser(ctx context.Context, userID string) ([]AdaptationPriority, error)

	// Upsert inserts or replaces a priority record. Written by the external
	// adaptation policy, not by the pattern engine.
	Upsert(ctx context.Context, p AdaptationPriority) error
}

// PriorityIndex keys priorities by pattern key for cluster lookup.
func PriorityIndex(priorities []AdaptationPriority) map[string]AdaptationPriority {
	idx := make(map[string]AdaptationPriority, len(priorities))
	for _, p := range priorities {
		idx[p.PatternKey] = p
	}
	return idx
}

type adaptationRepo struct {
	db *sql.DB
}

func (r *adaptationRepo) ForUser(ctx context.Context, userID string) ([]AdaptationPriority, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		user_id, pattern_key, tier, trending, intervention_count,
		last_intervention_at, intervention_successes
		FROM adaptation_priorities WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query adaptation priorities: %w", err)
	}
	defer rows.Close()

	var out []AdaptationPriority
	for rows.Next() {
		var p AdaptationPriority
		var last sql.NullTime
		if err := rows.Scan(
			&p.UserID, &p.PatternKey, &p.Tier, &p.Trending,
			&p.InterventionCount, &last, &p.InterventionSuccesses,
		); err != nil {
			return nil, fmt.Errorf("scan adaptation priority: %w", err)
		}
		if last.Valid {
			t := last.Time
			p.LastInterventionAt = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adaptation priorities: %w", err)
	}
	return out, nil
}

func (r *adaptationRepo) Upsert(ctx context.Context, p AdaptationPriority) error {
	var last any
	if p.LastInterventionAt != nil {
		last = *p.LastInterventionAt
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO adaptation_priorities
		(user_id, pattern_key, tier, trending, intervention_count,
		 last_intervention_at, intervention_successes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, pattern_key) DO UPDATE SET
			tier = excluded.tier,
			trending = excluded.trending,
			intervention_count = excluded.intervention_count,
			last_intervention_at = excluded.last_intervention_at,
			intervention_successes = excluded.intervention_successes`,
		p.UserID, p.PatternKey, p.Tier, p.Trending,
		p.InterventionCount, last, p.InterventionSuccesses)
	if err != nil {
		return fmt.Errorf("upsert adaptation priority: %w", err)
	}
	return nil
}

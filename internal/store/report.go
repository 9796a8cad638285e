package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ReportRecord summarizes one graded submission.
type ReportRecord struct {
	ID           int64
	UserID       string
	SessionID    string
	Modality     string
	OverallScore int
	ErrorCount   int
	CreatedAt    time.Time
}

// ReportRepo provides access to graded report summaries.
type ReportRepo interface {
	// Save records a report summary.
	Save(ctx context.Context, r ReportRecord) error

	// ForUser returns report summaries for a user, newest first.
	ForUser(ctx context.Context, userID string, limit int) ([]ReportRecord, error)
}

type reportRepo struct {
	db *sql.DB
}

func (r *reportRepo) Save(ctx context.Context, rec ReportRecord) error {
	at := rec.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO reports
		(user_id, session_id, modality, overall_score, error_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.SessionID, rec.Modality, rec.OverallScore, rec.ErrorCount, at)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *reportRepo) ForUser(ctx context.Context, userID string, limit int) ([]ReportRecord, error) {
	q := `SELECT id, user_id, session_id, modality, overall_score, error_count, created_at
		FROM reports WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SessionID, &rec.Modality,
			&rec.OverallScore, &rec.ErrorCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

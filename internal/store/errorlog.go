package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/linguakit/linguakit/internal/signal"
)

// ErrorLog is one persisted error occurrence.
type ErrorLog struct {
	ID                int64
	UserID            string
	SessionID         string
	ErrorType         string
	Category          string
	Pattern           string
	LearnerProduction string
	CorrectForm       string
	Confidence        float64
	Severity          string
	InputType         string
	FeedbackType      string
	Context           string
	CreatedAt         time.Time
}

// FromOccurrence builds an ErrorLog row from an extracted occurrence.
func FromOccurrence(userID, sessionID string, o signal.ErrorOccurrence, at time.Time) ErrorLog {
	return ErrorLog{
		UserID:            userID,
		SessionID:         sessionID,
		ErrorType:         string(o.Type),
		Category:          o.Category,
		Pattern:           o.Pattern,
		LearnerProduction: o.LearnerProduction,
		CorrectForm:       o.CorrectForm,
		Confidence:        o.Confidence,
		Severity:          string(o.Severity),
		InputType:         string(o.InputType),
		FeedbackType:      string(o.FeedbackType),
		Context:           o.Context,
		CreatedAt:         at,
	}
}

// Fingerprint identifies a log row for within-session deduplication.
// Two rows with the same fingerprint describe the same mistake instance.
func Fingerprint(l ErrorLog) string {
	return strings.Join([]string{
		l.UserID, l.SessionID, l.ErrorType, l.Category, l.Context, l.CorrectForm,
	}, "\x1f")
}

// Dedupe drops logs whose fingerprint repeats an earlier entry, preserving
// order. The engine itself never deduplicates; callers apply this before
// appending a session's occurrences.
func Dedupe(logs []ErrorLog) []ErrorLog {
	seen := make(map[string]bool, len(logs))
	out := logs[:0:0]
	for _, l := range logs {
		fp := Fingerprint(l)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, l)
	}
	return out
}

// ErrorLogRepo provides append and query access to error occurrences.
type ErrorLogRepo interface {
	// Append inserts logs in order. IDs are assigned by the database.
	Append(ctx context.Context, logs []ErrorLog) error

	// ForUser returns all logs for a user, oldest first.
	ForUser(ctx context.Context, userID string) ([]ErrorLog, error)
}

type errorLogRepo struct {
	db *sql.DB
}

func (r *errorLogRepo) Append(ctx context.Context, logs []ErrorLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO error_logs
		(user_id, session_id, error_type, category, pattern,
		 learner_production, correct_form, confidence, severity,
		 input_type, feedback_type, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		at := l.CreatedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			l.UserID, l.SessionID, l.ErrorType, l.Category, l.Pattern,
			l.LearnerProduction, l.CorrectForm, l.Confidence, l.Severity,
			l.InputType, l.FeedbackType, l.Context, at,
		); err != nil {
			return fmt.Errorf("insert error log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *errorLogRepo) ForUser(ctx context.Context, userID string) ([]ErrorLog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, user_id, session_id, error_type, category, pattern,
		learner_production, correct_form, confidence, severity,
		input_type, feedback_type, context, created_at
		FROM error_logs WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query error logs: %w", err)
	}
	defer rows.Close()

	var logs []ErrorLog
	for rows.Next() {
		var l ErrorLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.SessionID, &l.ErrorType, &l.Category, &l.Pattern,
			&l.LearnerProduction, &l.CorrectForm, &l.Confidence, &l.Severity,
			&l.InputType, &l.FeedbackType, &l.Context, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate error logs: %w", err)
	}
	return logs, nil
}

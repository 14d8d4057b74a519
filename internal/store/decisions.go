package store

import (
	"context"
	"fmt"
	"time"
)

// RecordDecision appends an emitted decision to a session
func (s *Store) RecordDecision(ctx context.Context, d *Decision) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (
			session_id, decided_at, elapsed_sec, state, goal, tone, urgency, confidence, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.SessionID, d.DecidedAt.Format(time.RFC3339), d.ElapsedSec,
		d.State, d.Goal, d.Tone, d.Urgency, d.Confidence, d.Reason,
	)
	if err != nil {
		return fmt.Errorf("inserting decision: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// ListDecisions returns a session's decisions in the order they were made
func (s *Store) ListDecisions(ctx context.Context, sessionID string) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, decided_at, elapsed_sec, state, goal, tone, urgency, confidence, reason
		FROM decisions
		WHERE session_id = ?
		ORDER BY elapsed_sec, id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var d Decision
		var decidedAt string
		if err := rows.Scan(
			&d.ID, &d.SessionID, &decidedAt, &d.ElapsedSec,
			&d.State, &d.Goal, &d.Tone, &d.Urgency, &d.Confidence, &d.Reason,
		); err != nil {
			return nil, err
		}
		d.DecidedAt, err = time.Parse(time.RFC3339, decidedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing decided_at: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// StateCounts returns how many decisions were emitted per state in a session
func (s *Store) StateCounts(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state, COUNT(*) FROM decisions
		WHERE session_id = ?
		GROUP BY state
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

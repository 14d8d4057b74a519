package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSession inserts a new session and assigns its ID if empty
func (s *Store) CreateSession(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, name, source, level, typical_pace, goal, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		sess.ID, sess.Name, sess.Source, sess.Level, sess.TypicalPace, sess.Goal,
		sess.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	if err := s.SetState(ctx, KeyLastSession, sess.ID); err != nil {
		return fmt.Errorf("recording last session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source, level, typical_pace, goal,
			started_at, finished_at, samples, emitted, withheld
		FROM sessions
		WHERE id = ?
	`, id)

	return scanSession(row)
}

// FindSession resolves a full ID or a unique ID prefix, as printed by the CLI
func (s *Store) FindSession(ctx context.Context, idOrPrefix string) (*Session, error) {
	if idOrPrefix == "" {
		return nil, ErrSessionNotFound
	}

	// substr rather than LIKE so '%' and '_' match literally
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM sessions WHERE substr(id, 1, length(?)) = ? LIMIT 2
	`, idOrPrefix, idOrPrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(ids) {
	case 0:
		return nil, ErrSessionNotFound
	case 1:
		return s.GetSession(ctx, ids[0])
	default:
		return nil, fmt.Errorf("session prefix %q is ambiguous", idOrPrefix)
	}
}

// ListSessions returns sessions ordered by start time descending
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source, level, typical_pace, goal,
			started_at, finished_at, samples, emitted, withheld
		FROM sessions
		ORDER BY started_at DESC, created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// FinishSession stamps the end time and final counters of a session
func (s *Store) FinishSession(ctx context.Context, id string, at time.Time, totals SessionTotals) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET finished_at = ?, samples = ?, emitted = ?, withheld = ?
		WHERE id = ?
	`, at.Format(time.RFC3339), totals.Samples, totals.Emitted, totals.Withheld, id)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session and, through the foreign key, its decisions
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// LastSession returns the most recently created session
func (s *Store) LastSession(ctx context.Context) (*Session, error) {
	id, err := s.GetState(ctx, KeyLastSession)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrSessionNotFound
	}
	return s.GetSession(ctx, id)
}

func scanSession(row *sql.Row) (*Session, error) {
	var sess Session
	var startedAt string
	var finishedAt sql.NullString

	err := row.Scan(
		&sess.ID, &sess.Name, &sess.Source, &sess.Level, &sess.TypicalPace, &sess.Goal,
		&startedAt, &finishedAt, &sess.Samples, &sess.Emitted, &sess.Withheld,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := sess.parseTimes(startedAt, finishedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func scanSessionRows(rows *sql.Rows) (*Session, error) {
	var sess Session
	var startedAt string
	var finishedAt sql.NullString

	err := rows.Scan(
		&sess.ID, &sess.Name, &sess.Source, &sess.Level, &sess.TypicalPace, &sess.Goal,
		&startedAt, &finishedAt, &sess.Samples, &sess.Emitted, &sess.Withheld,
	)
	if err != nil {
		return nil, err
	}

	if err := sess.parseTimes(startedAt, finishedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (sess *Session) parseTimes(startedAt string, finishedAt sql.NullString) error {
	var err error
	sess.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return fmt.Errorf("parsing started_at: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return fmt.Errorf("parsing finished_at: %w", err)
		}
		sess.FinishedAt = &t
	}
	return nil
}

// Duration is the wall time between start and finish, zero while running
func (sess *Session) Duration() time.Duration {
	if sess.FinishedAt == nil {
		return 0
	}
	return sess.FinishedAt.Sub(sess.StartedAt)
}

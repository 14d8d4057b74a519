package store

import "time"

// Session is one coaching session
type Session struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Source      string     `db:"source"` // scenario name, file path or "live"
	Level       string     `db:"level"`
	TypicalPace float64    `db:"typical_pace"` // sec/km
	Goal        string     `db:"goal"`
	StartedAt   time.Time  `db:"started_at"`
	FinishedAt  *time.Time `db:"finished_at"` // nil while running
	Samples     int        `db:"samples"`
	Emitted     int        `db:"emitted"`
	Withheld    int        `db:"withheld"`
}

// Decision is an emitted coaching output
type Decision struct {
	ID         int64     `db:"id"`
	SessionID  string    `db:"session_id"`
	DecidedAt  time.Time `db:"decided_at"`
	ElapsedSec float64   `db:"elapsed_sec"`
	State      string    `db:"state"`
	Goal       string    `db:"goal"`
	Tone       string    `db:"tone"`
	Urgency    string    `db:"urgency"`
	Confidence float64   `db:"confidence"`
	Reason     string    `db:"reason"`
}

// SessionTotals are the counters written when a session finishes
type SessionTotals struct {
	Samples  int
	Emitted  int
	Withheld int
}

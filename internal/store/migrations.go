package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// One row per coaching session (a run, live or replayed)
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			level TEXT NOT NULL,
			typical_pace REAL NOT NULL,
			goal TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			samples INTEGER NOT NULL DEFAULT 0,
			emitted INTEGER NOT NULL DEFAULT 0,
			withheld INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,

		// Emitted coaching decisions
		`CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			decided_at TEXT NOT NULL,
			elapsed_sec REAL NOT NULL,
			state TEXT NOT NULL,
			goal TEXT NOT NULL,
			tone TEXT NOT NULL,
			urgency TEXT NOT NULL,
			confidence REAL NOT NULL,
			reason TEXT NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id)`,

		// Journal state (key-value)
		`CREATE TABLE IF NOT EXISTS journal_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

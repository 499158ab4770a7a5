package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per verification attempt
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL CHECK(status IN ('in_progress', 'verified', 'reset', 'aborted', 'abandoned')),
			total INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			reason TEXT NOT NULL DEFAULT ''
		)`,

		// Ordered lifecycle events of an attempt
		`CREATE TABLE IF NOT EXISTS attempt_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			challenge_id TEXT,
			challenge_index INTEGER,
			label TEXT,
			created_at DATETIME NOT NULL,
			UNIQUE(attempt_id, seq)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_attempts_started_at ON attempts(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_events_attempt_id ON attempt_events(attempt_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

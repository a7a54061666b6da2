package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Analyses table - one row per completed pipeline run
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			video_name TEXT NOT NULL,
			jump_score INTEGER NOT NULL CHECK(jump_score BETWEEN 0 AND 5),
			running_score INTEGER NOT NULL CHECK(running_score BETWEEN 0 AND 5),
			passing_score INTEGER NOT NULL CHECK(passing_score BETWEEN 0 AND 5),
			overall_score REAL NOT NULL,
			processing_time REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

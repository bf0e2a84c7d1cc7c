package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			title            TEXT NOT NULL,
			note             TEXT,
			category         TEXT CHECK(category IN ('Work', 'Fitness', 'Household', 'Social', 'Learning', 'Personal')),
			duration_minutes INTEGER NOT NULL CHECK(duration_minutes > 0),
			priority         INTEGER CHECK(priority BETWEEN 1 AND 5),
			status           TEXT DEFAULT 'planned' CHECK(status IN ('planned', 'active', 'done', 'cancelled')),
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS blocks (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			title            TEXT NOT NULL,
			category         TEXT CHECK(category IN ('Work', 'Fitness', 'Household', 'Social', 'Learning', 'Personal')),
			start_iso        TEXT NOT NULL,
			end_iso          TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL CHECK(duration_minutes > 0),
			status           TEXT DEFAULT 'planned' CHECK(status IN ('planned', 'active', 'done', 'cancelled')),
			fixed            INTEGER NOT NULL DEFAULT 0,
			task_id          INTEGER REFERENCES tasks(id),
			created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_start ON blocks(start_iso);
		CREATE INDEX IF NOT EXISTS idx_blocks_status ON blocks(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

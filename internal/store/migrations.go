package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sessions (summary data from /athlete/activities)
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			average_speed REAL,
			average_heartrate REAL,
			max_heartrate REAL,
			suffer_score REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_start_date ON sessions(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_type ON sessions(type)`,

		// Athlete profile (singleton row, replaced on each detection)
		`CREATE TABLE IF NOT EXISTS athlete_profiles (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			aerobic_pace_sec REAL NOT NULL,
			aerobic_hr REAL NOT NULL,
			anaerobic_pace_sec REAL NOT NULL,
			anaerobic_hr REAL NOT NULL,
			method TEXT NOT NULL,
			ratings_since_recalc INTEGER NOT NULL DEFAULT 0,
			sample_count INTEGER NOT NULL DEFAULT 0,
			computed_at TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Effort ratings (athlete RPE feedback, one row per submitted rating)
		`CREATE TABLE IF NOT EXISTS effort_ratings (
			id TEXT PRIMARY KEY,
			session_id INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			pace_sec_per_km REAL NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_effort_ratings_session ON effort_ratings(session_id)`,

		// Sync state (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
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

package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session doesn't exist
var ErrSessionNotFound = errors.New("session not found")

// UpsertSession inserts or updates a session summary
func (db *DB) UpsertSession(s *Session) error {
	_, err := db.Exec(`
		INSERT INTO sessions (
			id, athlete_id, name, type, start_date, distance, moving_time,
			average_speed, average_heartrate, max_heartrate, suffer_score, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			average_speed = excluded.average_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			suffer_score = excluded.suffer_score,
			updated_at = CURRENT_TIMESTAMP
	`,
		s.ID, s.AthleteID, s.Name, s.Type, s.StartDate.Format(time.RFC3339),
		s.Distance, s.MovingTime, s.AverageSpeed,
		s.AverageHeartrate, s.MaxHeartrate, s.SufferScore,
	)
	return err
}

// GetSession retrieves a session by ID
func (db *DB) GetSession(id int64) (*Session, error) {
	row := db.QueryRow(sessionColumns+` WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// ListSessions returns sessions ordered by start date descending
func (db *DB) ListSessions(limit, offset int) ([]Session, error) {
	rows, err := db.Query(sessionColumns+`
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// SessionsSince returns sessions starting on or after the cutoff, oldest
// first. This is the history handed to threshold detection.
func (db *DB) SessionsSince(cutoff time.Time) ([]Session, error) {
	rows, err := db.Query(sessionColumns+`
		WHERE start_date >= ?
		ORDER BY start_date ASC
	`, cutoff.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// CountSessions returns the total number of stored sessions
func (db *DB) CountSessions() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

const sessionColumns = `
	SELECT id, athlete_id, name, type, start_date, distance, moving_time,
		average_speed, average_heartrate, max_heartrate, suffer_score
	FROM sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var startDate string
	err := row.Scan(
		&s.ID, &s.AthleteID, &s.Name, &s.Type, &startDate,
		&s.Distance, &s.MovingTime, &s.AverageSpeed,
		&s.AverageHeartrate, &s.MaxHeartrate, &s.SufferScore,
	)
	if err != nil {
		return nil, err
	}

	s.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// InsertRating records a submitted effort rating. The generated ID is
// written back to the passed rating.
func (db *DB) InsertRating(r *EffortRating) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := db.Exec(`
		INSERT INTO effort_ratings (id, session_id, rating, outcome, pace_sec_per_km)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.SessionID, r.Rating, r.Outcome, r.PaceSecPerKm)
	return err
}

// ListRecentRatings returns the most recently submitted ratings, newest first
func (db *DB) ListRecentRatings(limit int) ([]EffortRating, error) {
	rows, err := db.Query(`
		SELECT id, session_id, rating, outcome, pace_sec_per_km, created_at
		FROM effort_ratings
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRatings(rows)
}

// RatingForSession returns the latest rating for a session, if any
func (db *DB) RatingForSession(sessionID int64) (*EffortRating, error) {
	rows, err := db.Query(`
		SELECT id, session_id, rating, outcome, pace_sec_per_km, created_at
		FROM effort_ratings
		WHERE session_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings, err := scanRatings(rows)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, nil
	}
	return &ratings[0], nil
}

// CountRatings returns the total number of recorded ratings
func (db *DB) CountRatings() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM effort_ratings`).Scan(&n)
	return n, err
}

func scanRatings(rows *sql.Rows) ([]EffortRating, error) {
	var ratings []EffortRating
	for rows.Next() {
		var r EffortRating
		var createdAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Rating, &r.Outcome, &r.PaceSecPerKm, &createdAt); err != nil {
			return nil, err
		}
		// SQLite CURRENT_TIMESTAMP format
		t, err := time.Parse("2006-01-02 15:04:05", createdAt)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = t
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

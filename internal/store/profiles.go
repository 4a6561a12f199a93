package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNoProfile is returned when no threshold estimate has been stored yet
var ErrNoProfile = errors.New("no athlete profile stored")

// GetProfile retrieves the stored athlete profile
func (db *DB) GetProfile() (*Profile, error) {
	row := db.QueryRow(`
		SELECT athlete_id, aerobic_pace_sec, aerobic_hr, anaerobic_pace_sec,
			anaerobic_hr, method, ratings_since_recalc, sample_count, computed_at
		FROM athlete_profiles
		WHERE id = 1
	`)

	var p Profile
	var computedAt string
	err := row.Scan(
		&p.AthleteID, &p.AerobicPaceSec, &p.AerobicHR, &p.AnaerobicPaceSec,
		&p.AnaerobicHR, &p.Method, &p.RatingsSinceRecalc, &p.SampleCount, &computedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, err
	}

	p.ComputedAt, err = time.Parse(time.RFC3339, computedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile stores or replaces the athlete profile
func (db *DB) SaveProfile(p *Profile) error {
	_, err := db.Exec(`
		INSERT INTO athlete_profiles (
			id, athlete_id, aerobic_pace_sec, aerobic_hr, anaerobic_pace_sec,
			anaerobic_hr, method, ratings_since_recalc, sample_count, computed_at, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			aerobic_pace_sec = excluded.aerobic_pace_sec,
			aerobic_hr = excluded.aerobic_hr,
			anaerobic_pace_sec = excluded.anaerobic_pace_sec,
			anaerobic_hr = excluded.anaerobic_hr,
			method = excluded.method,
			ratings_since_recalc = excluded.ratings_since_recalc,
			sample_count = excluded.sample_count,
			computed_at = excluded.computed_at,
			updated_at = CURRENT_TIMESTAMP
	`,
		p.AthleteID, p.AerobicPaceSec, p.AerobicHR, p.AnaerobicPaceSec,
		p.AnaerobicHR, p.Method, p.RatingsSinceRecalc, p.SampleCount,
		p.ComputedAt.Format(time.RFC3339),
	)
	return err
}

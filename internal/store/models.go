package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Session represents a synced activity summary
type Session struct {
	ID               int64     `db:"id"`
	AthleteID        int64     `db:"athlete_id"`
	Name             string    `db:"name"`
	Type             string    `db:"type"`
	StartDate        time.Time `db:"start_date"`
	Distance         float64   `db:"distance"`          // meters
	MovingTime       int       `db:"moving_time"`       // seconds
	AverageSpeed     float64   `db:"average_speed"`     // m/s
	AverageHeartrate *float64  `db:"average_heartrate"` // nullable
	MaxHeartrate     *float64  `db:"max_heartrate"`     // nullable
	SufferScore      *float64  `db:"suffer_score"`      // nullable
}

// Profile is the persisted threshold estimate for the athlete. Zones are not
// stored; they are derived from the anaerobic pace on load so they can never
// drift from the threshold.
type Profile struct {
	AthleteID          int64     `db:"athlete_id"`
	AerobicPaceSec     float64   `db:"aerobic_pace_sec"`
	AerobicHR          float64   `db:"aerobic_hr"`
	AnaerobicPaceSec   float64   `db:"anaerobic_pace_sec"`
	AnaerobicHR        float64   `db:"anaerobic_hr"`
	Method             string    `db:"method"`
	RatingsSinceRecalc int       `db:"ratings_since_recalc"`
	SampleCount        int       `db:"sample_count"`
	ComputedAt         time.Time `db:"computed_at"`
}

// EffortRating is a recorded athlete RPE submission and what it did to the
// profile.
type EffortRating struct {
	ID           string    `db:"id"`
	SessionID    int64     `db:"session_id"`
	Rating       int       `db:"rating"`
	Outcome      string    `db:"outcome"`
	PaceSecPerKm float64   `db:"pace_sec_per_km"`
	CreatedAt    time.Time `db:"created_at"`
}

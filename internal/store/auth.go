package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNoAuth is returned when no Strava tokens have been stored yet
var ErrNoAuth = errors.New("no authentication stored")

// GetAuth loads the stored Strava tokens. The auth table is a singleton: a
// critpace database belongs to exactly one athlete.
func (db *DB) GetAuth() (*Auth, error) {
	var a Auth
	var expiresUnix int64

	err := db.QueryRow(
		`SELECT athlete_id, access_token, refresh_token, expires_at
		 FROM auth WHERE id = 1`,
	).Scan(&a.AthleteID, &a.AccessToken, &a.RefreshToken, &expiresUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, err
	}

	a.ExpiresAt = time.Unix(expiresUnix, 0)
	return &a, nil
}

// SaveAuth stores the tokens from a completed OAuth flow, replacing whatever
// was there before. Expiry is stored as a Unix timestamp.
func (db *DB) SaveAuth(a *Auth) error {
	_, err := db.Exec(
		`INSERT INTO auth (id, athlete_id, access_token, refresh_token, expires_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		a.AthleteID, a.AccessToken, a.RefreshToken, a.ExpiresAt.Unix())
	return err
}

// UpdateTokens replaces the tokens after a refresh without touching the
// athlete identity. Returns ErrNoAuth when no OAuth flow has ever completed.
func (db *DB) UpdateTokens(accessToken, refreshToken string, expiresAt time.Time) error {
	res, err := db.Exec(
		`UPDATE auth
		 SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = 1`,
		accessToken, refreshToken, expiresAt.Unix())
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoAuth
	}
	return nil
}

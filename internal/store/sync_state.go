package store

import (
	"database/sql"
	"errors"
)

// GetSyncState reads one sync bookkeeping value, such as the last session
// sync timestamp. A key that was never written reads as an empty string.
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSyncState writes one sync bookkeeping value, overwriting any previous
// value for the key.
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(
		`INSERT INTO sync_state (key, value, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

package store

import (
	"errors"
	"testing"
	"time"
)

func TestAuthRoundTrip(t *testing.T) {
	db := testDB(t)

	if _, err := db.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("got err %v, want ErrNoAuth", err)
	}

	expiry := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	in := &Auth{
		AthleteID:    7,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiry,
	}
	if err := db.SaveAuth(in); err != nil {
		t.Fatalf("save auth: %v", err)
	}

	out, err := db.GetAuth()
	if err != nil {
		t.Fatalf("get auth: %v", err)
	}
	if out.AthleteID != 7 || out.AccessToken != "access-1" || out.RefreshToken != "refresh-1" {
		t.Errorf("auth fields wrong: %+v", out)
	}
	if !out.ExpiresAt.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", out.ExpiresAt, expiry)
	}
}

func TestUpdateTokens(t *testing.T) {
	db := testDB(t)

	// A refresh before any OAuth flow is a caller bug
	if err := db.UpdateTokens("a", "r", time.Now()); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("got err %v, want ErrNoAuth", err)
	}

	if err := db.SaveAuth(&Auth{
		AthleteID:    7,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().UTC(),
	}); err != nil {
		t.Fatalf("save auth: %v", err)
	}

	newExpiry := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	if err := db.UpdateTokens("access-2", "refresh-2", newExpiry); err != nil {
		t.Fatalf("update tokens: %v", err)
	}

	out, err := db.GetAuth()
	if err != nil {
		t.Fatalf("get auth: %v", err)
	}
	if out.AccessToken != "access-2" || out.RefreshToken != "refresh-2" {
		t.Errorf("tokens not replaced: %+v", out)
	}
	if out.AthleteID != 7 {
		t.Errorf("athlete id = %d, want 7 (refresh must not touch identity)", out.AthleteID)
	}
	if !out.ExpiresAt.Equal(newExpiry) {
		t.Errorf("expiry = %v, want %v", out.ExpiresAt, newExpiry)
	}
}

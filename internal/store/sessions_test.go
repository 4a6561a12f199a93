package store

import (
	"errors"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSession(id int64, start time.Time) *Session {
	hr := 152.0
	return &Session{
		ID:               id,
		AthleteID:        7,
		Name:             "Morning Run",
		Type:             "Run",
		StartDate:        start,
		Distance:         10000,
		MovingTime:       3200,
		AverageSpeed:     3.125,
		AverageHeartrate: &hr,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)

	start := time.Date(2026, 8, 20, 6, 30, 0, 0, time.UTC)
	want := testSession(101, start)
	if err := db.UpsertSession(want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetSession(101)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != want.Name || got.Type != want.Type {
		t.Errorf("got %q/%q, want %q/%q", got.Name, got.Type, want.Name, want.Type)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("start date = %v, want %v", got.StartDate, start)
	}
	if got.AverageHeartrate == nil || *got.AverageHeartrate != 152.0 {
		t.Errorf("heart rate = %v, want 152", got.AverageHeartrate)
	}
	if got.SufferScore != nil {
		t.Errorf("suffer score = %v, want nil", got.SufferScore)
	}
}

func TestSessionUpsertOverwrites(t *testing.T) {
	db := testDB(t)

	s := testSession(101, time.Now().UTC().Truncate(time.Second))
	if err := db.UpsertSession(s); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	s.Name = "Renamed Run"
	s.MovingTime = 3600
	if err := db.UpsertSession(s); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := db.GetSession(101)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Renamed Run" || got.MovingTime != 3600 {
		t.Errorf("upsert did not overwrite: %q, %d", got.Name, got.MovingTime)
	}

	n, err := db.CountSessions()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("session count = %d, want 1", n)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetSession(999); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got err %v, want ErrSessionNotFound", err)
	}
}

func TestSessionsSince(t *testing.T) {
	db := testDB(t)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := testSession(int64(i+1), base.AddDate(0, 0, i*7))
		if err := db.UpsertSession(s); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	got, err := db.SessionsSince(base.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("sessions since: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sessions, want 3", len(got))
	}
	// Oldest first
	for i := 1; i < len(got); i++ {
		if got[i].StartDate.Before(got[i-1].StartDate) {
			t.Error("sessions not ordered oldest first")
		}
	}
}

func TestListSessionsPagination(t *testing.T) {
	db := testDB(t)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := db.UpsertSession(testSession(int64(i+1), base.AddDate(0, 0, i))); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	page, err := db.ListSessions(2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d sessions, want 2", len(page))
	}
	// Newest first
	if page[0].ID != 5 || page[1].ID != 4 {
		t.Errorf("first page = [%d, %d], want [5, 4]", page[0].ID, page[1].ID)
	}

	last, err := db.ListSessions(2, 4)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(last) != 1 || last[0].ID != 1 {
		t.Errorf("last page wrong: %+v", last)
	}
}

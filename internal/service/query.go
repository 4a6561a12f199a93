package service

import (
	"errors"
	"sort"
	"time"

	"critpace/internal/engine"
	"critpace/internal/store"
)

// QueryService provides read-only views over the store for the TUI
type QueryService struct {
	db  *store.DB
	cfg engine.Config
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, cfg engine.Config) *QueryService {
	return &QueryService{db: db, cfg: cfg}
}

// DashboardData is everything the dashboard screen renders
type DashboardData struct {
	State          *engine.AthleteState // nil until a first estimate exists
	RecentSessions []SessionWithRating
	SessionCount   int
	RatingCount    int
	LastSync       time.Time

	// Filtered samples sorted slow to fast, for the pace/HR chart
	PaceSeries      []float64
	HeartRateSeries []float64
}

// SessionWithRating pairs a session with its latest rating, if any
type SessionWithRating struct {
	Session store.Session
	Rating  *store.EffortRating
	Zone    *engine.Zone // which zone the session's pace fell in, when known
}

// GetDashboardData loads the data for the dashboard screen
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	data := &DashboardData{}

	p, err := q.db.GetProfile()
	switch {
	case errors.Is(err, store.ErrNoProfile):
		// Dashboard renders a getting-started prompt instead.
	case err != nil:
		return nil, err
	default:
		state := profileToState(p)
		data.State = &state
	}

	data.SessionCount, err = q.db.CountSessions()
	if err != nil {
		return nil, err
	}
	data.RatingCount, err = q.db.CountRatings()
	if err != nil {
		return nil, err
	}

	if lastSync, err := q.db.GetSyncState(lastSessionSyncKey); err == nil && lastSync != "" {
		data.LastSync, _ = time.Parse(time.RFC3339, lastSync)
	}

	data.RecentSessions, err = q.GetSessionsList(RecentSessionsLimit, 0)
	if err != nil {
		return nil, err
	}

	if err := q.loadChartSeries(data); err != nil {
		return nil, err
	}

	return data, nil
}

// GetSessionsList returns a page of sessions, newest first, each with its
// latest rating and the zone its pace falls in.
func (q *QueryService) GetSessionsList(limit, offset int) ([]SessionWithRating, error) {
	sessions, err := q.db.ListSessions(limit, offset)
	if err != nil {
		return nil, err
	}

	var zones *engine.ZoneProfile
	if p, err := q.db.GetProfile(); err == nil {
		zp := engine.DeriveZones(p.AnaerobicPaceSec)
		zones = &zp
	}

	out := make([]SessionWithRating, len(sessions))
	for i, s := range sessions {
		swr := SessionWithRating{Session: s}

		if r, err := q.db.RatingForSession(s.ID); err == nil && r != nil {
			swr.Rating = r
		}

		if zones != nil && s.AverageSpeed > 0 {
			z := zones.ZoneFor(1000 / s.AverageSpeed)
			swr.Zone = &z
		}

		out[i] = swr
	}

	return out, nil
}

// GetTotalSessionCount returns the total number of stored sessions
func (q *QueryService) GetTotalSessionCount() (int, error) {
	return q.db.CountSessions()
}

// loadChartSeries builds the pace-vs-heart-rate series from the same
// filtered samples the detector sees, so the chart shows what the estimate
// was computed from.
func (q *QueryService) loadChartSeries(data *DashboardData) error {
	cutoff := time.Now().AddDate(0, 0, -q.cfg.LookbackDays)
	sessions, err := q.db.SessionsSince(cutoff)
	if err != nil {
		return err
	}

	history := make([]engine.RawSession, len(sessions))
	for i, s := range sessions {
		history[i] = toRawSession(s)
	}

	samples, err := engine.Filter(history, q.cfg)
	if err != nil {
		// Not enough data for a chart is fine.
		return nil
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].PaceSecPerKm > samples[j].PaceSecPerKm
	})

	if len(samples) > ChartSessionLimit {
		samples = samples[len(samples)-ChartSessionLimit:]
	}

	data.PaceSeries = make([]float64, len(samples))
	data.HeartRateSeries = make([]float64, len(samples))
	for i, s := range samples {
		data.PaceSeries[i] = s.PaceSecPerKm
		data.HeartRateSeries[i] = s.HeartRate
	}

	return nil
}

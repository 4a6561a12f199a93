package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"critpace/internal/engine"
	"critpace/internal/store"
	"critpace/internal/strava"
)

// SyncService pulls activity summaries from Strava into the local store and
// refreshes the threshold estimate afterwards.
type SyncService struct {
	client    *strava.Client
	store     *store.DB
	estimator *EstimatorService
	logger    *zap.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(client *strava.Client, db *store.DB, estimator *EstimatorService, logger *zap.Logger) *SyncService {
	return &SyncService{
		client:    client,
		store:     db,
		estimator: estimator,
		logger:    logger,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string // "sessions", "estimate"
	Total     int
	Completed int
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	SessionsFetched  int
	SessionsStored   int
	EstimateUpdated  bool
	InsufficientData bool
	Errors           []error
}

// SyncAll fetches new activity summaries and then re-estimates thresholds
// from the updated history.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncSessions(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing sessions: %w", err)
	}

	if err := s.refreshEstimate(progress, result); err != nil {
		return result, fmt.Errorf("refreshing estimate: %w", err)
	}

	return result, nil
}

// syncSessions fetches activity summaries since the last sync and stores the
// run-like ones with heart-rate data.
func (s *SyncService) syncSessions(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	lastSyncStr, _ := s.store.GetSyncState(lastSessionSyncKey)
	var after time.Time
	if lastSyncStr != "" {
		after, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "sessions"}
	}

	activities, err := s.client.GetAllActivities(ctx, after, func(fetched int) {
		if progress != nil {
			progress <- SyncProgress{Phase: "sessions", Total: fetched}
		}
	})
	if err != nil {
		return fmt.Errorf("fetching activities: %w", err)
	}

	result.SessionsFetched = len(activities)

	for _, a := range activities {
		if !IsStorableType(a.Type) || !a.HasHeartrate {
			continue
		}
		if err := s.store.UpsertSession(convertActivity(a)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing session %d: %w", a.ID, err))
			continue
		}
		result.SessionsStored++
	}

	if progress != nil {
		progress <- SyncProgress{
			Phase:     "sessions",
			Total:     result.SessionsFetched,
			Completed: result.SessionsStored,
		}
	}

	s.store.SetSyncState(lastSessionSyncKey, time.Now().Format(time.RFC3339))

	s.logger.Info("session sync finished",
		zap.Int("fetched", result.SessionsFetched),
		zap.Int("stored", result.SessionsStored))

	return nil
}

// refreshEstimate re-runs threshold detection over the updated history. A
// history that can't support an estimate yet is a normal outcome, not a sync
// failure.
func (s *SyncService) refreshEstimate(progress chan<- SyncProgress, result *SyncResult) error {
	if progress != nil {
		progress <- SyncProgress{Phase: "estimate"}
	}

	_, err := s.estimator.Recalculate()
	switch {
	case errors.Is(err, engine.ErrInsufficientData) || errors.Is(err, engine.ErrDegenerateEstimate):
		result.InsufficientData = true
		return nil
	case err != nil:
		return err
	}

	result.EstimateUpdated = true
	return nil
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// convertActivity converts a Strava API activity to a stored session
func convertActivity(a strava.Activity) *store.Session {
	sess := &store.Session{
		ID:           a.ID,
		AthleteID:    a.Athlete.ID,
		Name:         a.Name,
		Type:         a.Type,
		StartDate:    a.StartDate,
		Distance:     a.Distance,
		MovingTime:   a.MovingTime,
		AverageSpeed: a.AverageSpeed,
	}

	if a.AverageHeartrate > 0 {
		hr := a.AverageHeartrate
		sess.AverageHeartrate = &hr
	}
	if a.MaxHeartrate > 0 {
		hr := a.MaxHeartrate
		sess.MaxHeartrate = &hr
	}
	if a.SufferScore > 0 {
		score := a.SufferScore
		sess.SufferScore = &score
	}

	return sess
}

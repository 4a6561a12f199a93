package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"critpace/internal/config"
	"critpace/internal/engine"
	"critpace/internal/store"
)

// EstimatorService owns the athlete profile lifecycle: it feeds stored
// session history into the engine, persists the resulting profile, and folds
// in effort ratings. All profile mutations go through one mutex so a rating
// nudge can't race a full re-detection.
type EstimatorService struct {
	db     *store.DB
	cfg    engine.Config
	logger *zap.Logger

	mu sync.Mutex
}

// NewEstimatorService creates an estimator over the given store
func NewEstimatorService(db *store.DB, cfg *config.Config, logger *zap.Logger) *EstimatorService {
	return &EstimatorService{
		db:     db,
		cfg:    EngineConfig(cfg),
		logger: logger,
	}
}

// EngineConfig maps the file configuration onto the engine tunables
func EngineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		LookbackDays:       cfg.Engine.LookbackDays,
		MinDurationSeconds: cfg.Engine.MinDurationSeconds,
		MinSamples:         cfg.Engine.MinSamples,
		OutlierTrimPct:     cfg.Engine.OutlierTrimPct,
		SufferScoreCeiling: cfg.Engine.SufferScoreCeiling,
		NudgeStepSeconds:   cfg.Engine.NudgeStepSeconds,
		RecalcEveryRatings: cfg.Engine.RecalcEveryRatings,
		MaxHeartRate:       cfg.Athlete.MaxHR,
	}
}

// RatingResult is what a submitted rating did
type RatingResult struct {
	Outcome    engine.RatingOutcome
	State      engine.AthleteState
	Redetected bool
}

// CurrentState loads the stored profile as engine state, deriving zones from
// the persisted threshold. Returns store.ErrNoProfile when nothing has been
// estimated yet.
func (s *EstimatorService) CurrentState() (engine.AthleteState, error) {
	p, err := s.db.GetProfile()
	if err != nil {
		return engine.AthleteState{}, err
	}
	return profileToState(p), nil
}

// Recalculate runs a full detection over the stored history and replaces the
// profile. Returns engine.ErrInsufficientData (leaving any existing profile
// untouched) when the history can't support an estimate.
func (s *EstimatorService) Recalculate() (engine.AthleteState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recalculateLocked()
}

func (s *EstimatorService) recalculateLocked() (engine.AthleteState, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.LookbackDays)
	sessions, err := s.db.SessionsSince(cutoff)
	if err != nil {
		return engine.AthleteState{}, fmt.Errorf("loading history: %w", err)
	}

	history := make([]engine.RawSession, len(sessions))
	for i, sess := range sessions {
		history[i] = toRawSession(sess)
	}

	state, err := engine.Estimate(history, s.cfg)
	if err != nil {
		s.logger.Info("estimation failed",
			zap.Int("sessions", len(sessions)),
			zap.Error(err))
		return engine.AthleteState{}, err
	}

	athleteID := s.athleteID()
	if err := s.db.SaveProfile(stateToProfile(athleteID, state)); err != nil {
		return engine.AthleteState{}, fmt.Errorf("saving profile: %w", err)
	}

	s.logger.Info("threshold estimated",
		zap.Float64("anaerobic_pace_sec", state.Threshold.AnaerobicPaceSec),
		zap.Float64("aerobic_pace_sec", state.Threshold.AerobicPaceSec),
		zap.String("method", string(state.Threshold.Method)),
		zap.Int("samples", state.SampleCount))

	return state, nil
}

// SubmitRating folds an athlete's effort rating for a session into the
// profile. The rating is recorded even when it doesn't move the threshold;
// when enough ratings have accumulated a full re-detection runs before
// returning.
func (s *EstimatorService) SubmitRating(sessionID int64, rating int) (*RatingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.db.GetSession(sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		// An unknown session is the same class of caller mistake as an
		// out-of-range rating.
		return nil, engine.ErrInvalidRating
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var state engine.AthleteState
	p, err := s.db.GetProfile()
	switch {
	case errors.Is(err, store.ErrNoProfile):
		// No threshold yet: the rating can only be recorded as skipped.
	case err != nil:
		return nil, fmt.Errorf("loading profile: %w", err)
	default:
		state = profileToState(p)
	}

	sample := toSample(sess)
	next, outcome, err := engine.ApplyRating(state, sample, rating, s.cfg)
	if err != nil {
		return nil, err
	}

	if err := s.db.InsertRating(&store.EffortRating{
		SessionID:    sessionID,
		Rating:       rating,
		Outcome:      string(outcome),
		PaceSecPerKm: sample.PaceSecPerKm,
	}); err != nil {
		return nil, fmt.Errorf("recording rating: %w", err)
	}

	result := &RatingResult{Outcome: outcome, State: next}

	if outcome == engine.RatingSkipped {
		return result, nil
	}

	if err := s.db.SaveProfile(stateToProfile(s.athleteID(), next)); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	s.logger.Info("effort rating applied",
		zap.Int64("session_id", sessionID),
		zap.Int("rating", rating),
		zap.String("outcome", string(outcome)),
		zap.Float64("anaerobic_pace_sec", next.Threshold.AnaerobicPaceSec))

	if next.NeedsRedetect(s.cfg) {
		fresh, err := s.recalculateLocked()
		switch {
		case errors.Is(err, engine.ErrInsufficientData) || errors.Is(err, engine.ErrDegenerateEstimate):
			// The nudged profile stands until the history can support a
			// fresh detection.
			s.logger.Warn("scheduled re-detection skipped", zap.Error(err))
		case err != nil:
			return nil, err
		default:
			result.State = fresh
			result.Redetected = true
		}
	}

	return result, nil
}

func (s *EstimatorService) athleteID() int64 {
	if auth, err := s.db.GetAuth(); err == nil {
		return auth.AthleteID
	}
	return 0
}

// toRawSession maps a stored session into the engine's input shape
func toRawSession(s store.Session) engine.RawSession {
	return engine.RawSession{
		ID:               s.ID,
		Kind:             s.Type,
		AverageSpeed:     s.AverageSpeed,
		AverageHeartrate: s.AverageHeartrate,
		DurationSeconds:  s.MovingTime,
		SufferScore:      s.SufferScore,
		StartDate:        s.StartDate,
	}
}

// toSample maps a stored session into a detector sample for rating purposes
func toSample(s *store.Session) engine.SessionSample {
	var pace, hr float64
	if s.AverageSpeed > 0 {
		pace = 1000 / s.AverageSpeed
	}
	if s.AverageHeartrate != nil {
		hr = *s.AverageHeartrate
	}
	return engine.SessionSample{
		SessionID:       s.ID,
		PaceSecPerKm:    pace,
		HeartRate:       hr,
		DurationSeconds: s.MovingTime,
	}
}

func stateToProfile(athleteID int64, state engine.AthleteState) *store.Profile {
	return &store.Profile{
		AthleteID:          athleteID,
		AerobicPaceSec:     state.Threshold.AerobicPaceSec,
		AerobicHR:          state.Threshold.AerobicHR,
		AnaerobicPaceSec:   state.Threshold.AnaerobicPaceSec,
		AnaerobicHR:        state.Threshold.AnaerobicHR,
		Method:             string(state.Threshold.Method),
		RatingsSinceRecalc: state.RatingsSinceRecalc,
		SampleCount:        state.SampleCount,
		ComputedAt:         state.ComputedAt,
	}
}

func profileToState(p *store.Profile) engine.AthleteState {
	return engine.AthleteState{
		Threshold: engine.ThresholdEstimate{
			AerobicPaceSec:   p.AerobicPaceSec,
			AerobicHR:        p.AerobicHR,
			AnaerobicPaceSec: p.AnaerobicPaceSec,
			AnaerobicHR:      p.AnaerobicHR,
			Method:           engine.DetectionMethod(p.Method),
		},
		Zones:              engine.DeriveZones(p.AnaerobicPaceSec),
		RatingsSinceRecalc: p.RatingsSinceRecalc,
		SampleCount:        p.SampleCount,
		ComputedAt:         p.ComputedAt,
	}
}

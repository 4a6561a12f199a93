package engine

import (
	"errors"
	"reflect"
	"testing"
)

// calibratedState returns a state with a stored anaerobic threshold of 250
// sec/km and zones derived from it.
func calibratedState() AthleteState {
	return AthleteState{
		Threshold: ThresholdEstimate{
			AerobicPaceSec:   290,
			AerobicHR:        155,
			AnaerobicPaceSec: 250,
			AnaerobicHR:      172,
			Method:           MethodSlope,
		},
		Zones:       DeriveZones(250),
		SampleCount: 8,
	}
}

func TestApplyRatingNudges(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name        string
		rating      int
		wantPace    float64
		wantOutcome RatingOutcome
	}{
		{"felt very easy", 2, 245, RatingTightened},
		{"felt easy", 5, 245, RatingTightened},
		{"on target", 6, 250, RatingValidated},
		{"target effort", 7, 250, RatingValidated},
		{"slightly hard", 8, 250, RatingValidated},
		{"felt hard", 9, 255, RatingLoosened},
		{"maximal", 10, 255, RatingLoosened},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := SessionSample{SessionID: 42, PaceSecPerKm: 250, HeartRate: 170}
			next, outcome, err := ApplyRating(calibratedState(), sample, tt.rating, cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}
			within(t, "anaerobic pace", next.Threshold.AnaerobicPaceSec, tt.wantPace, 1e-9)
			if next.RatingsSinceRecalc != 1 {
				t.Errorf("counter = %d, want 1", next.RatingsSinceRecalc)
			}
			within(t, "zone critical pace", next.Zones.CriticalPaceSec, tt.wantPace, 1e-9)
		})
	}
}

func TestApplyRatingOutsidePaceBand(t *testing.T) {
	cfg := DefaultConfig()
	prior := calibratedState()

	// 40% slower than the stored threshold: not a threshold effort, so even
	// a maximal rating says nothing about the estimate.
	sample := SessionSample{SessionID: 42, PaceSecPerKm: 350, HeartRate: 140}
	next, outcome, err := ApplyRating(prior, sample, 10, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != RatingSkipped {
		t.Errorf("outcome = %v, want %v", outcome, RatingSkipped)
	}
	if !reflect.DeepEqual(next, prior) {
		t.Error("skipped rating changed the state")
	}
}

func TestApplyRatingBandEdges(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		pace    float64
		applied bool
	}{
		{"at slow edge", 275, true},
		{"at fast edge", 225, true},
		{"just beyond slow edge", 275.1, false},
		{"just beyond fast edge", 224.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := SessionSample{SessionID: 1, PaceSecPerKm: tt.pace}
			next, outcome, err := ApplyRating(calibratedState(), sample, 7, cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			applied := outcome != RatingSkipped
			if applied != tt.applied {
				t.Errorf("applied = %v, want %v", applied, tt.applied)
			}
			wantCounter := 0
			if tt.applied {
				wantCounter = 1
			}
			if next.RatingsSinceRecalc != wantCounter {
				t.Errorf("counter = %d, want %d", next.RatingsSinceRecalc, wantCounter)
			}
		})
	}
}

func TestApplyRatingLoosenClampsAtAerobicPace(t *testing.T) {
	cfg := DefaultConfig()
	state := calibratedState()
	state.Threshold.AerobicPaceSec = 252

	sample := SessionSample{SessionID: 1, PaceSecPerKm: 250}
	next, outcome, err := ApplyRating(state, sample, 9, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != RatingLoosened {
		t.Errorf("outcome = %v, want %v", outcome, RatingLoosened)
	}
	within(t, "anaerobic pace", next.Threshold.AnaerobicPaceSec, 252, 1e-9)
	if !next.Threshold.Valid() {
		t.Error("loosening broke the threshold ordering")
	}
}

func TestApplyRatingInvalid(t *testing.T) {
	cfg := DefaultConfig()
	for _, rating := range []int{0, -1, 11} {
		prior := calibratedState()
		next, _, err := ApplyRating(prior, SessionSample{PaceSecPerKm: 250}, rating, cfg)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: got err %v, want ErrInvalidRating", rating, err)
		}
		if !reflect.DeepEqual(next, prior) {
			t.Errorf("rating %d: invalid rating changed the state", rating)
		}
	}
}

func TestApplyRatingWithoutThreshold(t *testing.T) {
	cfg := DefaultConfig()
	next, outcome, err := ApplyRating(AthleteState{}, SessionSample{PaceSecPerKm: 250}, 7, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != RatingSkipped {
		t.Errorf("outcome = %v, want %v", outcome, RatingSkipped)
	}
	if next.RatingsSinceRecalc != 0 {
		t.Errorf("counter = %d, want 0", next.RatingsSinceRecalc)
	}
}

func TestRedetectCadence(t *testing.T) {
	cfg := DefaultConfig()
	state := calibratedState()
	sample := SessionSample{SessionID: 1, PaceSecPerKm: 250}

	for i := 1; i <= 3; i++ {
		var err error
		state, _, err = ApplyRating(state, sample, 7, cfg)
		if err != nil {
			t.Fatalf("rating %d: unexpected error: %v", i, err)
		}
		wantRedetect := i == 3
		if got := state.NeedsRedetect(cfg); got != wantRedetect {
			t.Errorf("after %d ratings: NeedsRedetect = %v, want %v", i, got, wantRedetect)
		}
	}
	if state.RatingsSinceRecalc != 3 {
		t.Fatalf("counter = %d, want 3", state.RatingsSinceRecalc)
	}

	// A full re-detection resets the counter; the cadence starts over.
	state.RatingsSinceRecalc = 0
	if state.NeedsRedetect(cfg) {
		t.Error("fresh estimate should not need re-detection")
	}
}

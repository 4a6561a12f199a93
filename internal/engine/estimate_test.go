package engine

import (
	"errors"
	"testing"
)

func sixSessionHistory() []RawSession {
	hrs := []float64{130, 135, 140, 150, 165, 180}
	paces := []float64{360, 350, 340, 320, 300, 280}
	history := make([]RawSession, len(hrs))
	for i := range hrs {
		s := goodRun(int64(i + 1))
		s.AverageSpeed = 1000 / paces[i]
		s.AverageHeartrate = fp(hrs[i])
		s.DurationSeconds = 1200
		history[i] = s
	}
	return history
}

func TestEstimateFromHistory(t *testing.T) {
	state, err := Estimate(sixSessionHistory(), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !state.HasThreshold() {
		t.Fatal("estimate did not produce a threshold")
	}
	if state.Threshold.Method != MethodPercentile {
		t.Errorf("method = %v, want %v", state.Threshold.Method, MethodPercentile)
	}
	// The trim leaves four near-linear samples, so the percentile fallback
	// carries the estimate.
	within(t, "aerobic pace", state.Threshold.AerobicPaceSec, 315.2, 1e-6)
	within(t, "anaerobic pace", state.Threshold.AnaerobicPaceSec, 306.4, 1e-6)

	if state.SampleCount != 4 {
		t.Errorf("sample count = %d, want 4", state.SampleCount)
	}
	if state.RatingsSinceRecalc != 0 {
		t.Errorf("counter = %d, want 0", state.RatingsSinceRecalc)
	}
	if state.ComputedAt.IsZero() {
		t.Error("ComputedAt not set")
	}
	within(t, "zone critical pace", state.Zones.CriticalPaceSec, state.Threshold.AnaerobicPaceSec, 0)
}

func TestEstimateDiscardsAccumulatedNudges(t *testing.T) {
	cfg := DefaultConfig()
	history := sixSessionHistory()

	state, err := Estimate(history, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nudge the threshold, then re-estimate from the same history: the
	// fresh detection replaces the nudged value and resets the cadence.
	sample := SessionSample{SessionID: 1, PaceSecPerKm: state.Threshold.AnaerobicPaceSec}
	nudged, _, err := ApplyRating(state, sample, 4, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nudged.Threshold.AnaerobicPaceSec == state.Threshold.AnaerobicPaceSec {
		t.Fatal("nudge did not move the threshold")
	}

	fresh, err := Estimate(history, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	within(t, "anaerobic pace", fresh.Threshold.AnaerobicPaceSec, state.Threshold.AnaerobicPaceSec, 1e-9)
	if fresh.RatingsSinceRecalc != 0 {
		t.Errorf("counter = %d, want 0", fresh.RatingsSinceRecalc)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	history := sixSessionHistory()
	a, err := Estimate(history, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Estimate(history, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Threshold != b.Threshold {
		t.Errorf("thresholds differ across identical runs: %+v vs %+v", a.Threshold, b.Threshold)
	}
	if a.Zones != b.Zones {
		t.Error("zones differ across identical runs")
	}
}

func TestEstimateInsufficientHistory(t *testing.T) {
	history := sixSessionHistory()[:3]
	if _, err := Estimate(history, DefaultConfig()); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("got err %v, want ErrInsufficientData", err)
	}
}

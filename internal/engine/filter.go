package engine

import (
	"math"
	"sort"
	"time"
)

// runKinds are the activity types that count toward threshold estimation.
var runKinds = map[string]bool{
	"Run":        true,
	"TrailRun":   true,
	"VirtualRun": true,
}

// Heart rates outside this range are sensor noise, not physiology.
const (
	minPlausibleHR = 50
	maxPlausibleHR = 220
)

// Filter selects the sessions usable for threshold detection from a raw
// history and trims heart-rate outliers. It returns ErrInsufficientData when
// fewer than cfg.MinSamples sessions qualify before trimming.
func Filter(raw []RawSession, cfg Config) ([]SessionSample, error) {
	cfg = cfg.withDefaults()

	var cutoff time.Time
	if cfg.LookbackDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -cfg.LookbackDays)
	}

	samples := make([]SessionSample, 0, len(raw))
	for _, s := range raw {
		if !qualifies(s, cfg, cutoff) {
			continue
		}
		samples = append(samples, SessionSample{
			SessionID:       s.ID,
			PaceSecPerKm:    1000 / s.AverageSpeed,
			HeartRate:       *s.AverageHeartrate,
			DurationSeconds: s.DurationSeconds,
		})
	}

	// The minimum applies to the qualifying count, not the post-trim count:
	// a history that barely clears the bar still gets its extremes removed.
	if len(samples) < cfg.MinSamples {
		return nil, ErrInsufficientData
	}

	return trimHROutliers(samples, cfg.OutlierTrimPct), nil
}

// qualifies applies the per-session quality gates.
func qualifies(s RawSession, cfg Config, cutoff time.Time) bool {
	if !runKinds[s.Kind] {
		return false
	}
	if s.AverageSpeed <= 0 || math.IsInf(s.AverageSpeed, 0) || math.IsNaN(s.AverageSpeed) {
		return false
	}
	if s.DurationSeconds < cfg.MinDurationSeconds {
		return false
	}
	if s.AverageHeartrate == nil {
		return false
	}
	hr := *s.AverageHeartrate
	if hr < minPlausibleHR || hr > maxPlausibleHR {
		return false
	}
	if cfg.MaxHeartRate > 0 && hr > cfg.MaxHeartRate {
		return false
	}
	// Races and maximal efforts run hotter than training and would drag the
	// estimate upward.
	if s.SufferScore != nil && *s.SufferScore > cfg.SufferScoreCeiling {
		return false
	}
	if !cutoff.IsZero() && !s.StartDate.IsZero() && s.StartDate.Before(cutoff) {
		return false
	}
	return true
}

// trimHROutliers sorts samples by heart rate and drops trimPct from each
// end, at least one sample per end. Consumer wearables routinely misread a
// session or two; the extremes are where that shows up.
func trimHROutliers(samples []SessionSample, trimPct float64) []SessionSample {
	if trimPct <= 0 || len(samples) < 3 {
		return samples
	}

	sorted := make([]SessionSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].HeartRate < sorted[j].HeartRate
	})

	drop := int(float64(len(sorted)) * trimPct)
	if drop < 1 {
		drop = 1
	}
	if 2*drop >= len(sorted) {
		// Trimming would consume everything; keep the middle sample.
		mid := len(sorted) / 2
		return sorted[mid : mid+1]
	}

	return sorted[drop : len(sorted)-drop]
}

package engine

import "time"

// RawSession is one completed activity as handed to the engine. The engine
// knows nothing about where it came from; the caller maps its storage or API
// records into this shape.
type RawSession struct {
	ID               int64
	Kind             string    // activity type, e.g. "Run"
	AverageSpeed     float64   // m/s
	AverageHeartrate *float64  // bpm, nil when the device recorded none
	DurationSeconds  int
	SufferScore      *float64  // Strava relative effort, nil when absent
	StartDate        time.Time // zero when unknown
}

// SessionSample is a quality-filtered session used for threshold detection.
// Pace and heart rate are always present and the duration is above the
// configured floor; anything that can't satisfy that is dropped by Filter
// and never reaches the detector.
type SessionSample struct {
	SessionID       int64
	PaceSecPerKm    float64
	HeartRate       float64
	DurationSeconds int
}

// DetectionMethod records which of the two detection strategies produced an
// estimate.
type DetectionMethod string

const (
	MethodSlope      DetectionMethod = "slope"
	MethodPercentile DetectionMethod = "percentile"
)

// ThresholdEstimate is the detector's output for one athlete at one point in
// time. AnaerobicPaceSec <= AerobicPaceSec always holds (the anaerobic
// threshold is the faster pace); Detect enforces this by swapping and rejects
// pairs it cannot repair.
type ThresholdEstimate struct {
	AerobicPaceSec   float64
	AerobicHR        float64
	AnaerobicPaceSec float64
	AnaerobicHR      float64
	Method           DetectionMethod
}

// Valid reports whether the estimate carries a usable threshold pair.
func (e ThresholdEstimate) Valid() bool {
	return e.AnaerobicPaceSec > 0 && e.AerobicPaceSec > 0 &&
		e.AnaerobicPaceSec <= e.AerobicPaceSec
}

// Zone is one training-intensity pace band. Bounds are paces in seconds per
// km: SlowSec is the slower (numerically larger) edge, FastSec the faster
// edge. Zone 1 has no slow edge and zone 5 no fast edge; open edges are zero.
type Zone struct {
	Number  int
	Name    string
	SlowSec float64
	FastSec float64
}

// ZoneProfile holds the five contiguous pace bands derived from critical
// pace. Zones carry no state of their own; they are always a pure function
// of CriticalPaceSec.
type ZoneProfile struct {
	CriticalPaceSec float64
	Zones           [5]Zone
}

// AthleteState is the engine's view of a persisted athlete profile: the
// current threshold estimate, the zones derived from it, and the rating
// counter driving periodic re-detection. The storage layer owns persistence;
// the engine only transforms values.
type AthleteState struct {
	Threshold          ThresholdEstimate
	Zones              ZoneProfile
	RatingsSinceRecalc int
	SampleCount        int
	ComputedAt         time.Time
}

// HasThreshold reports whether a detection has ever populated this state.
func (s AthleteState) HasThreshold() bool {
	return s.Threshold.Valid()
}

// NeedsRedetect reports whether enough ratings have accumulated to warrant a
// full re-detection from history.
func (s AthleteState) NeedsRedetect(cfg Config) bool {
	every := cfg.RecalcEveryRatings
	if every < 1 {
		every = defaultRecalcEveryRatings
	}
	return s.RatingsSinceRecalc > 0 && s.RatingsSinceRecalc%every == 0
}

// Config holds the estimation tunables. Zero values mean "use the default";
// DefaultConfig returns the mature-design constants.
type Config struct {
	// LookbackDays limits how far back qualifying sessions may start.
	// Sessions with a zero StartDate are never excluded by age.
	LookbackDays int

	// MinDurationSeconds is the quality floor below which a session is too
	// short to say anything about steady-state thresholds.
	MinDurationSeconds int

	// MinSamples is the minimum number of qualifying sessions (before
	// outlier trimming) required to attempt detection at all.
	MinSamples int

	// OutlierTrimPct is the fraction of samples dropped from each heart-rate
	// extreme. At least one sample is dropped per end whenever trimming is
	// enabled.
	OutlierTrimPct float64

	// SufferScoreCeiling excludes races and maximal efforts, which would
	// bias the threshold upward.
	SufferScoreCeiling float64

	// NudgeStepSeconds is the per-rating adjustment to the anaerobic
	// threshold pace.
	NudgeStepSeconds float64

	// RecalcEveryRatings is how many applied ratings trigger a full
	// re-detection.
	RecalcEveryRatings int

	// MaxHeartRate is the athlete's known maximum, when available. Used only
	// to reject implausible samples; the fallback detector anchors on the
	// observed heart-rate range, not on this value.
	MaxHeartRate float64
}

const (
	defaultLookbackDays       = 90
	defaultMinDurationSeconds = 900
	defaultMinSamples         = 5
	defaultOutlierTrimPct     = 0.10
	defaultSufferCeiling      = 150
	defaultNudgeStepSeconds   = 5
	defaultRecalcEveryRatings = 3
)

// DefaultConfig returns the mature-design tunables.
func DefaultConfig() Config {
	return Config{
		LookbackDays:       defaultLookbackDays,
		MinDurationSeconds: defaultMinDurationSeconds,
		MinSamples:         defaultMinSamples,
		OutlierTrimPct:     defaultOutlierTrimPct,
		SufferScoreCeiling: defaultSufferCeiling,
		NudgeStepSeconds:   defaultNudgeStepSeconds,
		RecalcEveryRatings: defaultRecalcEveryRatings,
	}
}

// withDefaults fills zero fields so callers can pass a partially-populated
// Config.
func (c Config) withDefaults() Config {
	if c.LookbackDays == 0 {
		c.LookbackDays = defaultLookbackDays
	}
	if c.MinDurationSeconds == 0 {
		c.MinDurationSeconds = defaultMinDurationSeconds
	}
	if c.MinSamples == 0 {
		c.MinSamples = defaultMinSamples
	}
	if c.OutlierTrimPct == 0 {
		c.OutlierTrimPct = defaultOutlierTrimPct
	}
	if c.SufferScoreCeiling == 0 {
		c.SufferScoreCeiling = defaultSufferCeiling
	}
	if c.NudgeStepSeconds == 0 {
		c.NudgeStepSeconds = defaultNudgeStepSeconds
	}
	if c.RecalcEveryRatings == 0 {
		c.RecalcEveryRatings = defaultRecalcEveryRatings
	}
	return c
}

package engine

// ratingBandPct is how close a session's pace must be to the stored
// anaerobic-threshold pace for its effort rating to count as feedback on the
// estimate. Ratings of easy jogs or all-out sprints say nothing about
// threshold accuracy.
const ratingBandPct = 0.10

// Target perceived effort for a threshold-intensity session is 7/10.
// Ratings well below it mean the estimate is too soft, well above mean too
// aggressive.
const (
	tightenMaxRating = 5
	loosenMinRating  = 9
)

// RatingOutcome describes what an effort rating did to the profile.
type RatingOutcome string

const (
	// RatingSkipped: the session wasn't a threshold-intensity effort, or no
	// threshold exists yet. Profile unchanged, counter unchanged.
	RatingSkipped RatingOutcome = "skipped"
	// RatingValidated: effort matched expectation, estimate confirmed.
	RatingValidated RatingOutcome = "validated"
	// RatingTightened: effort felt easy, anaerobic pace nudged faster.
	RatingTightened RatingOutcome = "tightened"
	// RatingLoosened: effort felt hard, anaerobic pace nudged slower.
	RatingLoosened RatingOutcome = "loosened"
)

// ApplyRating folds one subjective effort rating into the athlete state. It
// is a pure value transformation: the input state is never mutated and the
// returned state carries freshly derived zones whenever the threshold moved.
// Callers check NeedsRedetect on the returned state to schedule a full
// re-detection; ApplyRating itself never touches history.
func ApplyRating(state AthleteState, sample SessionSample, rating int, cfg Config) (AthleteState, RatingOutcome, error) {
	if rating < 1 || rating > 10 {
		return state, "", ErrInvalidRating
	}

	cfg = cfg.withDefaults()

	if !state.HasThreshold() {
		return state, RatingSkipped, nil
	}

	anchor := state.Threshold.AnaerobicPaceSec
	band := ratingBandPct * anchor
	if sample.PaceSecPerKm < anchor-band || sample.PaceSecPerKm > anchor+band {
		return state, RatingSkipped, nil
	}

	outcome := RatingValidated
	switch {
	case rating <= tightenMaxRating:
		state.Threshold.AnaerobicPaceSec = anchor - cfg.NudgeStepSeconds
		outcome = RatingTightened
	case rating >= loosenMinRating:
		loosened := anchor + cfg.NudgeStepSeconds
		// The anaerobic threshold can never be slower than the aerobic one.
		if loosened > state.Threshold.AerobicPaceSec {
			loosened = state.Threshold.AerobicPaceSec
		}
		state.Threshold.AnaerobicPaceSec = loosened
		outcome = RatingLoosened
	}

	if outcome != RatingValidated {
		state.Zones = DeriveZones(state.Threshold.AnaerobicPaceSec)
	}
	state.RatingsSinceRecalc++

	return state, outcome, nil
}

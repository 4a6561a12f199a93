package engine

import "time"

// Estimate runs the full pipeline over a raw history: filter, detect, derive
// zones. It returns a complete replacement state with the rating counter
// reset; incremental nudges accumulated since the last detection are
// deliberately discarded in favor of the fresh estimate. Given the same
// history and config, the returned thresholds and zones are identical.
func Estimate(history []RawSession, cfg Config) (AthleteState, error) {
	cfg = cfg.withDefaults()

	samples, err := Filter(history, cfg)
	if err != nil {
		return AthleteState{}, err
	}

	est, err := Detect(samples, cfg)
	if err != nil {
		return AthleteState{}, err
	}

	return AthleteState{
		Threshold:          est,
		Zones:              DeriveZones(est.AnaerobicPaceSec),
		RatingsSinceRecalc: 0,
		SampleCount:        len(samples),
		ComputedAt:         time.Now(),
	}, nil
}

package engine

import "errors"

// ErrInsufficientData is returned when too few qualifying sessions exist or
// interpolation cannot resolve a threshold. Callers should tell the athlete
// to keep training rather than retry.
var ErrInsufficientData = errors.New("not enough qualifying sessions to estimate thresholds")

// ErrInvalidRating is returned for a rating outside 1-10 or one that
// references an unknown session. The single rating is rejected; the profile
// is unchanged.
var ErrInvalidRating = errors.New("effort rating must be between 1 and 10")

// ErrDegenerateEstimate is returned when the detector resolves an inverted
// or non-finite threshold pair it cannot repair, e.g. when every sample has
// the same pace. Callers treat it the same as insufficient data.
var ErrDegenerateEstimate = errors.New("detected thresholds are degenerate")

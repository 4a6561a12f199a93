package engine

import (
	"math"
	"sort"
)

// Slope-inflection tuning. The slope sequence (heart-rate rise per second of
// pace improvement) stays near its mean through the aerobic range and kinks
// upward at the two lactate thresholds.
const (
	aerobicSlopeFactor   = 1.3  // smoothed slope must exceed this x average
	anaerobicSlopeFactor = 1.8
	aerobicSearchBand    = 0.60 // slower fraction of the pace range
	minSlopePoints       = 3
)

// Percentile fallback anchors: the aerobic and anaerobic thresholds sit at
// roughly 62% and 84% of an athlete's observed heart-rate range.
const (
	aerobicHRPercentile   = 0.62
	anaerobicHRPercentile = 0.84
)

// Detect estimates the aerobic and anaerobic thresholds from filtered
// samples. The slope-inflection method runs first; when it finds no
// qualifying inflection pair, the percentile fallback runs unconditionally.
// Returns ErrInsufficientData when interpolation cannot resolve a threshold
// and ErrDegenerateEstimate when the resolved pair cannot be repaired.
func Detect(samples []SessionSample, cfg Config) (ThresholdEstimate, error) {
	cfg = cfg.withDefaults()

	if len(samples) < 2 {
		return ThresholdEstimate{}, ErrInsufficientData
	}

	// Slowest to fastest, i.e. pace descending.
	ordered := make([]SessionSample, len(samples))
	copy(ordered, samples)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PaceSecPerKm > ordered[j].PaceSecPerKm
	})

	if ordered[0].PaceSecPerKm == ordered[len(ordered)-1].PaceSecPerKm {
		// Every session at the same pace: no relationship to read.
		return ThresholdEstimate{}, ErrDegenerateEstimate
	}

	est := slopeDetect(ordered)
	if est == nil {
		fallback, err := percentileDetect(ordered)
		if err != nil {
			return ThresholdEstimate{}, err
		}
		est = fallback
	}

	return repair(*est)
}

// slopePoint is one point of the pace-vs-heart-rate slope sequence, anchored
// at the faster sample of its pair.
type slopePoint struct {
	pace  float64
	hr    float64
	slope float64
}

// slopeDetect looks for the two inflection points in the smoothed slope
// sequence. Returns nil when fewer than minSlopePoints slopes exist or when
// either threshold has no qualifying point, in which case the caller falls
// back to percentiles.
func slopeDetect(ordered []SessionSample) *ThresholdEstimate {
	points := make([]slopePoint, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		paceDelta := ordered[i-1].PaceSecPerKm - ordered[i].PaceSecPerKm // positive when getting faster
		if paceDelta <= 0 {
			continue
		}
		hrDelta := ordered[i].HeartRate - ordered[i-1].HeartRate
		points = append(points, slopePoint{
			pace:  ordered[i].PaceSecPerKm,
			hr:    ordered[i].HeartRate,
			slope: hrDelta / paceDelta,
		})
	}

	if len(points) < minSlopePoints {
		return nil
	}

	smoothed := smooth3(points)

	var avg float64
	for _, s := range smoothed {
		avg += s
	}
	avg /= float64(len(smoothed))
	if avg <= 0 {
		// Heart rate doesn't rise with pace in this history; the inflection
		// criteria are meaningless.
		return nil
	}

	slowest := ordered[0].PaceSecPerKm
	fastest := ordered[len(ordered)-1].PaceSecPerKm
	// Pace at the 60% mark of the range, counted from the slow end.
	bandSplit := slowest - aerobicSearchBand*(slowest-fastest)

	var aerobic, anaerobic *slopePoint
	for i := range points {
		p := points[i]
		if aerobic == nil && p.pace >= bandSplit && smoothed[i] > aerobicSlopeFactor*avg {
			aerobic = &points[i]
		}
		if anaerobic == nil && p.pace < bandSplit && smoothed[i] > anaerobicSlopeFactor*avg {
			anaerobic = &points[i]
		}
	}

	if aerobic == nil || anaerobic == nil {
		return nil
	}

	return &ThresholdEstimate{
		AerobicPaceSec:   aerobic.pace,
		AerobicHR:        aerobic.hr,
		AnaerobicPaceSec: anaerobic.pace,
		AnaerobicHR:      anaerobic.hr,
		Method:           MethodSlope,
	}
}

// smooth3 applies a 3-point moving average, clipping the window at the
// edges.
func smooth3(points []slopePoint) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		sum, n := points[i].slope, 1
		if i > 0 {
			sum += points[i-1].slope
			n++
		}
		if i < len(points)-1 {
			sum += points[i+1].slope
			n++
		}
		out[i] = sum / float64(n)
	}
	return out
}

// percentileDetect anchors the two thresholds at fixed percentiles of the
// observed heart-rate range and interpolates the corresponding paces.
func percentileDetect(samples []SessionSample) (*ThresholdEstimate, error) {
	minHR, maxHR := samples[0].HeartRate, samples[0].HeartRate
	for _, s := range samples[1:] {
		minHR = math.Min(minHR, s.HeartRate)
		maxHR = math.Max(maxHR, s.HeartRate)
	}
	hrRange := maxHR - minHR
	if hrRange <= 0 {
		return nil, ErrDegenerateEstimate
	}

	aerobicHR := minHR + aerobicHRPercentile*hrRange
	anaerobicHR := minHR + anaerobicHRPercentile*hrRange

	aerobicPace, ok := paceAtHR(samples, aerobicHR)
	if !ok {
		return nil, ErrInsufficientData
	}
	anaerobicPace, ok := paceAtHR(samples, anaerobicHR)
	if !ok {
		return nil, ErrInsufficientData
	}

	return &ThresholdEstimate{
		AerobicPaceSec:   aerobicPace,
		AerobicHR:        aerobicHR,
		AnaerobicPaceSec: anaerobicPace,
		AnaerobicHR:      anaerobicHR,
		Method:           MethodPercentile,
	}, nil
}

// paceAtHR finds the pace at a target heart rate by linear interpolation
// between the two samples bracketing it. When only one side of the bracket
// exists it returns that side's pace; there is no extrapolation beyond the
// observed range.
func paceAtHR(samples []SessionSample, targetHR float64) (float64, bool) {
	var below, above *SessionSample
	for i := range samples {
		s := &samples[i]
		if s.HeartRate <= targetHR {
			if below == nil || s.HeartRate > below.HeartRate {
				below = s
			}
		}
		if s.HeartRate >= targetHR {
			if above == nil || s.HeartRate < above.HeartRate {
				above = s
			}
		}
	}

	switch {
	case below == nil && above == nil:
		return 0, false
	case below == nil:
		return above.PaceSecPerKm, true
	case above == nil:
		return below.PaceSecPerKm, true
	case above.HeartRate == below.HeartRate:
		return below.PaceSecPerKm, true
	}

	frac := (targetHR - below.HeartRate) / (above.HeartRate - below.HeartRate)
	return below.PaceSecPerKm + frac*(above.PaceSecPerKm-below.PaceSecPerKm), true
}

// repair enforces the threshold ordering invariant, swapping an inverted
// pair and rejecting anything that still isn't a usable estimate.
func repair(est ThresholdEstimate) (ThresholdEstimate, error) {
	for _, v := range []float64{est.AerobicPaceSec, est.AnaerobicPaceSec} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ThresholdEstimate{}, ErrDegenerateEstimate
		}
	}

	if est.AnaerobicPaceSec > est.AerobicPaceSec {
		est.AerobicPaceSec, est.AnaerobicPaceSec = est.AnaerobicPaceSec, est.AerobicPaceSec
		est.AerobicHR, est.AnaerobicHR = est.AnaerobicHR, est.AerobicHR
	}

	if !est.Valid() {
		return ThresholdEstimate{}, ErrDegenerateEstimate
	}

	return est, nil
}

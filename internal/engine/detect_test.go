package engine

import (
	"errors"
	"math"
	"testing"
)

func within(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func samplesFrom(pairs [][2]float64) []SessionSample {
	out := make([]SessionSample, len(pairs))
	for i, p := range pairs {
		out[i] = SessionSample{SessionID: int64(i + 1), PaceSecPerKm: p[0], HeartRate: p[1], DurationSeconds: 1800}
	}
	return out
}

func TestDetectSlopeMethod(t *testing.T) {
	// A long flat stretch of easy paces, a moderate rise, then a steep one.
	// The smoothed slope crosses 1.3x its average at pace 350 and 1.8x at
	// pace 310. Input order is deliberately scrambled.
	samples := samplesFrom([][2]float64{
		{350, 157.5},
		{500, 130},
		{280, 187.5},
		{490, 130.5},
		{460, 132},
		{240, 211.5},
		{480, 131},
		{430, 133.5},
		{310, 169.5},
		{470, 131.5},
		{390, 145.5},
		{450, 132.5},
		{440, 133},
	})

	est, err := Detect(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != MethodSlope {
		t.Fatalf("method = %v, want %v", est.Method, MethodSlope)
	}
	within(t, "aerobic pace", est.AerobicPaceSec, 350, 1e-6)
	within(t, "aerobic HR", est.AerobicHR, 157.5, 1e-6)
	within(t, "anaerobic pace", est.AnaerobicPaceSec, 310, 1e-6)
	within(t, "anaerobic HR", est.AnaerobicHR, 169.5, 1e-6)
	if est.AnaerobicPaceSec > est.AerobicPaceSec {
		t.Error("anaerobic pace slower than aerobic pace")
	}
}

func TestDetectPercentileFallback(t *testing.T) {
	// Four near-linear samples produce a slope sequence that never kinks, so
	// the percentile fallback must carry the estimate.
	samples := samplesFrom([][2]float64{
		{350, 135},
		{340, 140},
		{320, 150},
		{300, 165},
	})

	est, err := Detect(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != MethodPercentile {
		t.Fatalf("method = %v, want %v", est.Method, MethodPercentile)
	}
	// HR range 135-165: aerobic anchor 153.6 bpm, anaerobic 160.2 bpm,
	// interpolated between the 150 and 165 bpm samples.
	within(t, "aerobic HR", est.AerobicHR, 153.6, 1e-9)
	within(t, "aerobic pace", est.AerobicPaceSec, 315.2, 1e-9)
	within(t, "anaerobic HR", est.AnaerobicHR, 160.2, 1e-9)
	within(t, "anaerobic pace", est.AnaerobicPaceSec, 306.4, 1e-9)
}

func TestDetectErrors(t *testing.T) {
	tests := []struct {
		name    string
		samples []SessionSample
		want    error
	}{
		{"single sample", samplesFrom([][2]float64{{300, 150}}), ErrInsufficientData},
		{"no samples", nil, ErrInsufficientData},
		{"uniform pace", samplesFrom([][2]float64{{300, 140}, {300, 150}, {300, 160}, {300, 170}}), ErrDegenerateEstimate},
		{"flat heart rate", samplesFrom([][2]float64{{360, 150}, {340, 150}, {320, 150}, {300, 150}}), ErrDegenerateEstimate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(tt.samples, DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Fatalf("got err %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRepair(t *testing.T) {
	t.Run("inverted pair is swapped whole", func(t *testing.T) {
		est, err := repair(ThresholdEstimate{
			AerobicPaceSec: 300, AerobicHR: 170,
			AnaerobicPaceSec: 340, AnaerobicHR: 150,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if est.AerobicPaceSec != 340 || est.AerobicHR != 150 {
			t.Errorf("aerobic side = (%v, %v), want (340, 150)", est.AerobicPaceSec, est.AerobicHR)
		}
		if est.AnaerobicPaceSec != 300 || est.AnaerobicHR != 170 {
			t.Errorf("anaerobic side = (%v, %v), want (300, 170)", est.AnaerobicPaceSec, est.AnaerobicHR)
		}
	})

	bad := []struct {
		name string
		est  ThresholdEstimate
	}{
		{"zero pace", ThresholdEstimate{AerobicPaceSec: 0, AnaerobicPaceSec: 300}},
		{"negative pace", ThresholdEstimate{AerobicPaceSec: 340, AnaerobicPaceSec: -5}},
		{"NaN pace", ThresholdEstimate{AerobicPaceSec: math.NaN(), AnaerobicPaceSec: 300}},
		{"infinite pace", ThresholdEstimate{AerobicPaceSec: math.Inf(1), AnaerobicPaceSec: 300}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repair(tt.est); !errors.Is(err, ErrDegenerateEstimate) {
				t.Fatalf("got err %v, want ErrDegenerateEstimate", err)
			}
		})
	}
}

func TestPaceAtHR(t *testing.T) {
	samples := samplesFrom([][2]float64{
		{350, 135},
		{340, 140},
		{320, 150},
		{300, 165},
	})

	tests := []struct {
		name   string
		target float64
		want   float64
		ok     bool
	}{
		{"exact sample", 140, 340, true},
		{"interpolated between brackets", 145, 330, true},
		{"below observed range returns slowest side", 120, 350, true},
		{"above observed range returns fastest side", 180, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := paceAtHR(samples, tt.target)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			within(t, "pace", got, tt.want, 1e-9)
		})
	}

	t.Run("no samples", func(t *testing.T) {
		if _, ok := paceAtHR(nil, 150); ok {
			t.Error("expected no pace from empty samples")
		}
	})
}

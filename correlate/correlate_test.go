package correlate

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-photometry/internal/testutil"
)

func TestPearsonSelfIsOne(t *testing.T) {
	n := 500
	time := testutil.TimeAxis(100, n)
	values := testutil.DeterministicSine(1.5, 100, 2, n)
	for i := range values {
		values[i] += 0.3 * math.Sin(float64(i))
	}

	r, err := Pearson(time, values, time, values)
	if err != nil {
		t.Fatalf("Pearson: %v", err)
	}
	testutil.RequireNearlyEqual(t, r, 1.0, 1e-12)
}

func TestPearsonAcrossDifferentTimeBases(t *testing.T) {
	// The same underlying sine sampled at two different rates must still
	// correlate strongly after grid resampling.
	underlying := func(tm float64) float64 { return math.Sin(2 * math.Pi * 0.7 * tm) }

	time1 := testutil.TimeAxis(100, 500)
	time2 := testutil.TimeAxis(73, 365)
	v1 := make([]float64, len(time1))
	v2 := make([]float64, len(time2))
	for i, tm := range time1 {
		v1[i] = underlying(tm)
	}
	for i, tm := range time2 {
		v2[i] = underlying(tm)
	}

	r, err := Pearson(time1, v1, time2, v2)
	if err != nil {
		t.Fatalf("Pearson: %v", err)
	}
	if r < 0.999 {
		t.Fatalf("r = %v, want near 1 for the same underlying signal", r)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	time := testutil.TimeAxis(100, 100)
	flat := testutil.DC(3, 100)
	varying := testutil.DeterministicSine(1, 100, 1, 100)

	if _, err := Pearson(time, flat, time, varying); err != ErrZeroVariance {
		t.Fatalf("err = %v, want ErrZeroVariance", err)
	}
}

func TestPearsonNoOverlap(t *testing.T) {
	time1 := testutil.TimeAxis(100, 100)
	time2 := make([]float64, 100)
	for i := range time2 {
		time2[i] = 50 + float64(i)*0.01
	}
	v := testutil.DeterministicSine(1, 100, 1, 100)

	if _, err := Pearson(time1, v, time2, v); err != ErrNoOverlap {
		t.Fatalf("err = %v, want ErrNoOverlap", err)
	}
}

func TestCrossCorrelationSelfPeaksAtZeroLag(t *testing.T) {
	n := 1000
	time := testutil.TimeAxis(100, n)
	values := testutil.DeterministicSine(0.8, 100, 1, n)
	testutil.AddGaussianBump(values, 300, 3, 10)

	res, err := CrossCorrelation(time, values, time, values, 2)
	if err != nil {
		t.Fatalf("CrossCorrelation: %v", err)
	}
	if res.PeakLag != 0 {
		t.Fatalf("peak lag = %v, want 0 for self correlation", res.PeakLag)
	}
	testutil.RequireNearlyEqual(t, res.PeakCorr, 1.0, 1e-6)
}

func TestCrossCorrelationRecoversShift(t *testing.T) {
	const fs = 100.0
	n := 1000
	time := testutil.TimeAxis(fs, n)

	a := make([]float64, n)
	b := make([]float64, n)
	testutil.AddGaussianBump(a, 200, 2, 0.1*fs)
	testutil.AddGaussianBump(b, 230, 2, 0.1*fs) // trace 2 lags by 0.3 s

	res, err := CrossCorrelation(time, a, time, b, 1)
	if err != nil {
		t.Fatalf("CrossCorrelation: %v", err)
	}
	if math.Abs(res.PeakLag-(-0.3)) > 0.02 {
		t.Fatalf("peak lag = %v, want -0.3", res.PeakLag)
	}
	if res.PeakCorr < 0.95 {
		t.Fatalf("peak correlation = %v, want near 1 for identical shapes", res.PeakCorr)
	}
}

func TestCrossCorrelationLagTrim(t *testing.T) {
	n := 500
	time := testutil.TimeAxis(100, n)
	values := testutil.DeterministicSine(1, 100, 1, n)

	res, err := CrossCorrelation(time, values, time, values, 0.5)
	if err != nil {
		t.Fatalf("CrossCorrelation: %v", err)
	}
	for _, lag := range res.Lags {
		if lag < -0.51 || lag > 0.51 {
			t.Fatalf("lag %v outside the requested +-0.5 s", lag)
		}
	}
	if _, err := CrossCorrelation(time, values, time, values, 0); err != ErrInvalidParameter {
		t.Fatalf("err = %v, want ErrInvalidParameter for zero max lag", err)
	}
}

func TestGrangerDetectsDirectionalDrive(t *testing.T) {
	const shift = 3
	n := 500
	time := testutil.TimeAxis(50, n)

	x := testutil.DeterministicNoise(11, 1, n)
	noise := testutil.DeterministicNoise(29, 0.05, n)
	y := make([]float64, n)
	for i := shift; i < n; i++ {
		y[i] = 0.8*x[i-shift] + noise[i]
	}

	res, err := Granger(time, x, time, y, 5)
	if err != nil {
		t.Fatalf("Granger: %v", err)
	}
	if res.Lags != 5 {
		t.Fatalf("lags = %d, want 5", res.Lags)
	}
	if res.FForward <= res.FReverse {
		t.Fatalf("FForward = %v, FReverse = %v; driving trace must dominate", res.FForward, res.FReverse)
	}
	if res.FForward < 10 {
		t.Fatalf("FForward = %v, want a strong statistic for a lagged copy", res.FForward)
	}
}

func TestGrangerDefaultsAndInsufficientData(t *testing.T) {
	time := testutil.TimeAxis(100, 14)
	values := testutil.DeterministicSine(1, 100, 1, 14)

	if _, err := Granger(time, values, time, values, 0); err != ErrInsufficientData {
		t.Fatalf("err = %v, want ErrInsufficientData for a short trace", err)
	}
}

func TestRollingCorrelationTracksSignFlip(t *testing.T) {
	const fs = 100.0
	n := 2000
	time := testutil.TimeAxis(fs, n)

	a := testutil.DeterministicSine(2, fs, 1, n)
	b := make([]float64, n)
	for i := range b {
		if i < n/2 {
			b[i] = a[i]
		} else {
			b[i] = -a[i]
		}
	}

	res, err := Rolling(time, a, time, b, 1)
	if err != nil {
		t.Fatalf("Rolling: %v", err)
	}
	if len(res.Values) == 0 || len(res.Values) != len(res.Time) {
		t.Fatalf("curve lengths %d/%d", len(res.Values), len(res.Time))
	}
	if res.Stats.Max < 0.99 {
		t.Fatalf("max rolling correlation = %v, want ~1 in the aligned half", res.Stats.Max)
	}
	if res.Stats.Min > -0.99 {
		t.Fatalf("min rolling correlation = %v, want ~-1 in the inverted half", res.Stats.Min)
	}
}

func TestRollingWindowValidation(t *testing.T) {
	time := testutil.TimeAxis(100, 100)
	values := testutil.DeterministicSine(1, 100, 1, 100)

	if _, err := Rolling(time, values, time, values, 0); err != ErrInvalidParameter {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
	if _, err := Rolling(time, values, time, values, 100); err != ErrInsufficientData {
		t.Fatalf("err = %v, want ErrInsufficientData for a window wider than the trace", err)
	}
}

// Package correlate compares two traces that may live on different time
// bases: Pearson correlation, lag analysis via FFT cross-correlation, a
// simplified Granger-causality statistic, and windowed rolling correlation.
// Every analysis first resamples both traces onto one shared grid spanning
// the overlap of their time ranges.
package correlate

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-photometry/dsp/interp"
)

var (
	// ErrNoOverlap is returned when the two traces share no time range.
	ErrNoOverlap = errors.New("correlate: trace time ranges do not overlap")
	// ErrInsufficientData is returned when the shared grid is too short for
	// the requested analysis.
	ErrInsufficientData = errors.New("correlate: not enough samples")
	// ErrZeroVariance is returned when a correlation denominator vanishes.
	ErrZeroVariance = errors.New("correlate: zero-variance input")
	// ErrInvalidParameter is returned for non-positive lags, windows or
	// misshapen trace arrays.
	ErrInvalidParameter = errors.New("correlate: invalid parameter")
)

// grid is a pair of traces resampled onto one evenly spaced time axis.
type grid struct {
	time []float64
	a    []float64
	b    []float64
	dt   float64
}

// commonGrid builds the shared axis: min(len1, len2) points spanning the
// overlap of the two time ranges, both traces linearly interpolated onto it.
func commonGrid(time1, values1, time2, values2 []float64) (grid, error) {
	if len(time1) != len(values1) || len(time2) != len(values2) {
		return grid{}, ErrInvalidParameter
	}
	n := min(len(time1), len(time2))
	if n < 2 {
		return grid{}, ErrInsufficientData
	}

	start := math.Max(time1[0], time2[0])
	end := math.Min(time1[len(time1)-1], time2[len(time2)-1])
	if end <= start {
		return grid{}, ErrNoOverlap
	}

	axis := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range axis {
		axis[i] = start + float64(i)*step
	}
	axis[n-1] = end

	return grid{
		time: axis,
		a:    interp.Linear(axis, time1, values1),
		b:    interp.Linear(axis, time2, values2),
		dt:   step,
	}, nil
}

// Pearson resamples both traces onto the shared grid and returns their
// linear correlation coefficient over the full overlap.
func Pearson(time1, values1, time2, values2 []float64) (float64, error) {
	g, err := commonGrid(time1, values1, time2, values2)
	if err != nil {
		return 0, err
	}
	return pearson(g.a, g.b)
}

func pearson(a, b []float64) (float64, error) {
	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var saa, sbb, sab float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		saa += da * da
		sbb += db * db
		sab += da * db
	}
	den := math.Sqrt(saa * sbb)
	if den == 0 {
		return 0, ErrZeroVariance
	}
	return sab / den, nil
}

// CrossCorrelationResult is the lag-indexed correlation curve around zero.
type CrossCorrelationResult struct {
	// Lags in seconds, negative to positive around zero.
	Lags []float64
	// Values holds the normalized correlation at each lag.
	Values []float64
	// PeakLag is the lag with the largest absolute correlation.
	PeakLag  float64
	PeakCorr float64
}

// CrossCorrelation computes the full discrete cross-correlation of the two
// resampled traces, normalized by the product of their L2 norms, trimmed to
// +-maxLag seconds around zero.
func CrossCorrelation(time1, values1, time2, values2 []float64, maxLag float64) (CrossCorrelationResult, error) {
	if maxLag <= 0 {
		return CrossCorrelationResult{}, ErrInvalidParameter
	}
	g, err := commonGrid(time1, values1, time2, values2)
	if err != nil {
		return CrossCorrelationResult{}, err
	}

	corr, err := xcorrFFT(g.a, g.b)
	if err != nil {
		return CrossCorrelationResult{}, err
	}

	norm := l2Norm(g.a) * l2Norm(g.b)
	if norm == 0 {
		return CrossCorrelationResult{}, ErrZeroVariance
	}
	for i := range corr {
		corr[i] /= norm
	}

	center := len(corr) / 2
	maxLagSamples := int(maxLag / g.dt)
	lo := max(0, center-maxLagSamples)
	hi := min(len(corr), center+maxLagSamples+1)

	res := CrossCorrelationResult{
		Lags:   make([]float64, hi-lo),
		Values: corr[lo:hi],
	}
	peak := 0
	for i := range res.Lags {
		res.Lags[i] = float64(lo-center+i) * g.dt
		if math.Abs(res.Values[i]) > math.Abs(res.Values[peak]) {
			peak = i
		}
	}
	res.PeakLag = res.Lags[peak]
	res.PeakCorr = res.Values[peak]

	return res, nil
}

// xcorrFFT computes the full linear cross-correlation of a and b through a
// zero-padded FFT: IFFT(FFT(a) * conj(FFT(b))), rearranged so the output
// index k corresponds to lag k - (len(b) - 1).
func xcorrFFT(a, b []float64) ([]float64, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil, ErrInsufficientData
	}

	fftSize := nextPowerOf2(n + m - 1)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("correlate: fft plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("correlate: forward fft: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("correlate: forward fft: %w", err)
	}

	prodFreq := make([]complex128, fftSize)
	for i := range prodFreq {
		prodFreq[i] = aFreq[i] * complex(real(bFreq[i]), -imag(bFreq[i]))
	}

	prodTime := make([]complex128, fftSize)
	if err := plan.Inverse(prodTime, prodFreq); err != nil {
		return nil, fmt.Errorf("correlate: inverse fft: %w", err)
	}

	// The circular result carries positive lags at the front and negative
	// lags at the tail; rearrange into linear full-correlation order.
	result := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		result[m-1+i] = real(prodTime[i])
	}
	for i := 0; i < m-1; i++ {
		result[i] = real(prodTime[fftSize-m+1+i])
	}

	return result, nil
}

func l2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

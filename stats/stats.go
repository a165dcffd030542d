// Package stats provides the robust descriptive statistics used across the
// photometry pipeline: percentile baselines, median/MAD dispersion, and
// moment summaries.
package stats

import (
	"math"
	"sort"
)

// MADToStd converts a median absolute deviation to an equivalent standard
// deviation for normally distributed data.
const MADToStd = 1.4826

// Mean returns the arithmetic mean using Kahan summation for stability
// on long recordings.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range data {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(data))
}

// Variance returns the population variance computed with Welford's
// online algorithm.
func Variance(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	var mean, m2 float64
	for i, x := range data {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}

	return m2 / float64(n)
}

// StdDev returns the population standard deviation.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Median returns the middle value, averaging the two central samples for
// even lengths. The input is not modified.
func Median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}

	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// Percentile returns the p-th percentile (0..100) using linear
// interpolation between closest ranks. The input is not modified.
func Percentile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return data[0]
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// MAD returns the median absolute deviation around the median.
// Multiply by MADToStd for a robust standard-deviation estimate.
func MAD(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	med := Median(data)
	dev := make([]float64, len(data))
	for i, x := range data {
		dev[i] = math.Abs(x - med)
	}

	return Median(dev)
}

// StandardError returns the standard error of the mean
// (population standard deviation over sqrt(n)).
func StandardError(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	return StdDev(data) / math.Sqrt(float64(len(data)))
}

// Summary holds descriptive statistics of a series.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Describe computes a Summary in one pass plus a median sort.
// NaN samples are skipped; an all-NaN or empty input yields a zero Summary.
func Describe(data []float64) Summary {
	clean := data[:0:0]
	for _, x := range data {
		if !math.IsNaN(x) {
			clean = append(clean, x)
		}
	}
	if len(clean) == 0 {
		return Summary{}
	}

	s := Summary{
		Count:  len(clean),
		Mean:   Mean(clean),
		Median: Median(clean),
		Std:    StdDev(clean),
		Min:    clean[0],
		Max:    clean[0],
	}
	for _, x := range clean[1:] {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}

	return s
}

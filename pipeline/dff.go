package pipeline

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/stats"
)

// baselineEpsilon guards the dF/F division against a near-zero baseline.
const baselineEpsilon = 1e-9

// baselinePercentile picks the 10th percentile as F0, which stays robust
// against the upward transients the analysis is after.
const baselinePercentile = 10

// NormalizeDFF converts a detrended trace to percent change over its
// percentile baseline: (x - F0) / max(|F0|, eps) * 100.
// It returns the dF/F samples and the baseline value used.
func NormalizeDFF(values []float64) ([]float64, float64) {
	if len(values) == 0 {
		return nil, 0
	}

	f0 := stats.Percentile(values, baselinePercentile)
	den := math.Abs(f0)
	if den < baselineEpsilon {
		den = baselineEpsilon
	}

	centered := make([]float64, len(values))
	for i, v := range values {
		centered[i] = v - f0
	}

	dff := make([]float64, len(values))
	vecmath.ScaleBlock(dff, centered, 100/den)

	return dff, f0
}

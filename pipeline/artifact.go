package pipeline

import (
	"math"

	"github.com/cwbudde/algo-photometry/stats"
)

// DetectArtifacts flags reference-channel samples deviating from the median
// by more than threshold robust standard deviations. The dispersion is
// estimated with the MAD so the outliers being hunted do not inflate the
// bound themselves. Fewer than two samples yield an all-false mask.
func DetectArtifacts(reference []float64, threshold float64) []bool {
	mask := make([]bool, len(reference))
	if len(reference) < 2 {
		return mask
	}
	if threshold <= 0 {
		threshold = 3
	}

	median := stats.Median(reference)
	bound := threshold * stats.MAD(reference) * stats.MADToStd

	for i, v := range reference {
		if math.Abs(v-median) > bound {
			mask[i] = true
		}
	}

	return mask
}

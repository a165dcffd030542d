package pipeline

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/internal/lstsq"
	"github.com/cwbudde/algo-photometry/stats"
)

// degenerateStd is the variance floor below which the regression would be
// numerically meaningless and a scale-ratio estimate is used instead.
const degenerateStd = 1e-9

// FitBleaching regresses the reference channel onto the signal and returns
// the fitted line slope*reference + intercept, the shared bleaching/motion
// component to subtract from the signal.
//
// When either channel has near-zero variance, the regression degenerates
// and the fit falls back to scaling the reference by the ratio of the
// channel means.
func FitBleaching(signal, reference []float64) []float64 {
	fitted := make([]float64, len(signal))
	if len(reference) == 0 || len(signal) == 0 || len(reference) != len(signal) {
		return fitted
	}

	if stats.StdDev(reference) < degenerateStd || stats.StdDev(signal) < degenerateStd {
		return scaleRatioFit(signal, reference)
	}

	slope, intercept, err := lstsq.Line(reference, signal)
	if err != nil {
		return scaleRatioFit(signal, reference)
	}

	vecmath.ScaleBlock(fitted, reference, slope)
	for i := range fitted {
		fitted[i] += intercept
	}

	return fitted
}

// scaleRatioFit scales the reference by mean(signal)/mean(reference),
// guarding against a vanishing reference mean.
func scaleRatioFit(signal, reference []float64) []float64 {
	den := stats.Mean(reference)
	if den <= degenerateStd {
		den = 1
	}
	scale := stats.Mean(signal) / den

	fitted := make([]float64, len(reference))
	vecmath.ScaleBlock(fitted, reference, scale)

	return fitted
}

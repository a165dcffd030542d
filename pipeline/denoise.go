package pipeline

import (
	"github.com/cwbudde/algo-photometry/dsp/interp"
	"github.com/cwbudde/algo-photometry/internal/lstsq"
)

// minCleanForRegression is the number of artifact-free samples required
// before the aggressive mode trusts a reference regression.
const minCleanForRegression = 10

// regressionBlend weights the regression prediction against the plain
// interpolation in aggressive mode.
const regressionBlend = 0.7

// Denoise replaces artifact-masked samples by linear interpolation over the
// clean samples. In aggressive mode, with a reference channel present and
// enough clean samples, masked values are predicted by regressing the
// reference onto the signal over the clean region and blended with the
// interpolation for smoother joins.
//
// A mask without any set bit returns an unmodified copy.
func Denoise(time, signal []float64, mask []bool, reference []float64, aggressive bool) []float64 {
	if !anySet(mask) || len(mask) != len(signal) || len(time) != len(signal) {
		return append([]float64(nil), signal...)
	}

	interpolated := interp.FillMasked(time, signal, mask)

	if !aggressive || len(reference) != len(signal) {
		return interpolated
	}

	cleanRef := make([]float64, 0, len(signal))
	cleanSig := make([]float64, 0, len(signal))
	for i, bad := range mask {
		if !bad {
			cleanRef = append(cleanRef, reference[i])
			cleanSig = append(cleanSig, signal[i])
		}
	}
	if len(cleanSig) < minCleanForRegression {
		return interpolated
	}

	slope, intercept, err := lstsq.Line(cleanRef, cleanSig)
	if err != nil {
		return interpolated
	}

	out := interpolated
	for i, bad := range mask {
		if bad {
			predicted := slope*reference[i] + intercept
			out[i] = regressionBlend*predicted + (1-regressionBlend)*interpolated[i]
		}
	}

	return out
}

func anySet(mask []bool) bool {
	for _, b := range mask {
		if b {
			return true
		}
	}
	return false
}

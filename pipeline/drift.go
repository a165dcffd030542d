package pipeline

import (
	"github.com/cwbudde/algo-photometry/internal/lstsq"
)

// CorrectDrift fits a polynomial of the given degree against a normalized
// [0,1] time axis and subtracts it, removing slow nonlinear drift that a
// single linear term cannot capture. It returns the detrended samples and
// the fitted drift curve.
//
// When the fit cannot be computed (degenerate system, too few samples) the
// input is returned unchanged with a nil curve.
func CorrectDrift(values []float64, degree int) (detrended, curve []float64) {
	n := len(values)
	if degree < 1 {
		degree = 2
	}
	if n <= degree {
		return append([]float64(nil), values...), nil
	}

	norm := make([]float64, n)
	if n > 1 {
		step := 1 / float64(n-1)
		for i := range norm {
			norm[i] = float64(i) * step
		}
	}

	coeffs, err := lstsq.PolyFit(norm, values, degree)
	if err != nil {
		return append([]float64(nil), values...), nil
	}

	curve = lstsq.PolyVal(coeffs, norm)
	detrended = make([]float64, n)
	for i := range values {
		detrended[i] = values[i] - curve[i]
	}

	return detrended, curve
}

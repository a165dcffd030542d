package correlate

import (
	"github.com/cwbudde/algo-photometry/internal/lstsq"
)

// DefaultGrangerLags is the autoregressive order used when none is given.
const DefaultGrangerLags = 5

// GrangerResult holds the F-like statistics for both causal directions.
// Higher values indicate a stronger predictive contribution of the other
// trace. This is a heuristic ranking signal without a calibrated null
// distribution, not a hypothesis test.
type GrangerResult struct {
	// FForward measures how much trace 1 improves the prediction of trace 2.
	FForward float64
	// FReverse measures how much trace 2 improves the prediction of trace 1.
	FReverse float64
	Lags     int
	Samples  int
}

// Granger fits, for each direction, an autoregressive predictor of one
// trace's next value from its own lagged values (restricted model) and from
// both traces' lagged values (full model), and reports the F-like statistic
// of the residual-sum-of-squares reduction.
func Granger(time1, values1, time2, values2 []float64, lags int) (GrangerResult, error) {
	if lags <= 0 {
		lags = DefaultGrangerLags
	}

	g, err := commonGrid(time1, values1, time2, values2)
	if err != nil {
		return GrangerResult{}, err
	}

	obs := len(g.time) - lags
	if obs <= 2*lags+1 {
		return GrangerResult{}, ErrInsufficientData
	}

	forward, err := grangerF(g.a, g.b, lags)
	if err != nil {
		return GrangerResult{}, err
	}
	reverse, err := grangerF(g.b, g.a, lags)
	if err != nil {
		return GrangerResult{}, err
	}

	return GrangerResult{FForward: forward, FReverse: reverse, Lags: lags, Samples: obs}, nil
}

// grangerF tests whether source improves the prediction of target.
func grangerF(source, target []float64, lags int) (float64, error) {
	obs := len(target) - lags
	y := target[lags:]

	full := make([][]float64, obs)
	restricted := make([][]float64, obs)
	for r := 0; r < obs; r++ {
		fullRow := make([]float64, 2*lags+1)
		restrictedRow := make([]float64, lags+1)
		fullRow[0] = 1
		restrictedRow[0] = 1
		for i := 0; i < lags; i++ {
			fullRow[1+i] = source[lags-1-i+r]
			fullRow[1+lags+i] = target[lags-1-i+r]
			restrictedRow[1+i] = target[lags-1-i+r]
		}
		full[r] = fullRow
		restricted[r] = restrictedRow
	}

	rssFull, err := residualSumOfSquares(full, y)
	if err != nil {
		return 0, err
	}
	rssRestricted, err := residualSumOfSquares(restricted, y)
	if err != nil {
		return 0, err
	}

	num := (rssRestricted - rssFull) / float64(lags)
	den := rssFull / float64(obs-2*lags-1)
	if den == 0 {
		return 0, ErrZeroVariance
	}
	return num / den, nil
}

func residualSumOfSquares(x [][]float64, y []float64) (float64, error) {
	coeffs, err := lstsq.Fit(x, y)
	if err != nil {
		return 0, ErrZeroVariance
	}

	var rss float64
	for r, row := range x {
		pred := 0.0
		for c, v := range row {
			pred += coeffs[c] * v
		}
		d := y[r] - pred
		rss += d * d
	}
	return rss, nil
}

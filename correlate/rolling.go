package correlate

import (
	"math"

	"github.com/cwbudde/algo-photometry/stats"
)

// RollingResult is the time course of local correlation between two traces.
type RollingResult struct {
	// Time holds the window center times on the shared grid.
	Time []float64
	// Values holds the local Pearson coefficient per window; NaN where a
	// window has zero variance.
	Values []float64
	// Stats summarizes Values, skipping NaN windows.
	Stats stats.Summary
}

// Rolling slides a window of the given width in seconds across the shared
// grid and computes the Pearson correlation within each window, centered on
// every interior sample.
func Rolling(time1, values1, time2, values2 []float64, window float64) (RollingResult, error) {
	if window <= 0 {
		return RollingResult{}, ErrInvalidParameter
	}

	g, err := commonGrid(time1, values1, time2, values2)
	if err != nil {
		return RollingResult{}, err
	}

	windowSamples := int(window / g.dt)
	half := windowSamples / 2
	if half < 1 || windowSamples >= len(g.time) {
		return RollingResult{}, ErrInsufficientData
	}

	n := len(g.time)
	res := RollingResult{
		Time:   make([]float64, 0, n-2*half),
		Values: make([]float64, 0, n-2*half),
	}
	for i := half; i < n-half; i++ {
		r, err := pearson(g.a[i-half:i+half], g.b[i-half:i+half])
		if err != nil {
			r = math.NaN()
		}
		res.Time = append(res.Time, g.time[i])
		res.Values = append(res.Values, r)
	}

	res.Stats = stats.Describe(res.Values)
	return res, nil
}

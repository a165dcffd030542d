// Package interp provides piecewise-linear interpolation over sampled
// traces: grid resampling with clamped ends, and artifact-gap filling with
// linear extrapolation beyond the outermost clean samples.
package interp

import "sort"

// At evaluates the piecewise-linear interpolant of (xs, ys) at x.
// Queries outside the range of xs clamp to the edge values.
// xs must be strictly increasing and the same length as ys.
func At(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}

	// Index of the first knot right of x.
	hi := sort.SearchFloat64s(xs, x)
	lo := hi - 1
	span := xs[hi] - xs[lo]
	if span == 0 {
		return ys[lo]
	}
	frac := (x - xs[lo]) / span

	return ys[lo] + frac*(ys[hi]-ys[lo])
}

// Linear evaluates the interpolant at every query point. See At for the
// boundary behavior.
func Linear(query, xs, ys []float64) []float64 {
	out := make([]float64, len(query))
	for i, x := range query {
		out[i] = At(x, xs, ys)
	}

	return out
}

// atExtrapolated is At without clamping: queries outside the knot range
// continue the slope of the outermost segment.
func atExtrapolated(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return ys[0]
	}

	var lo int
	switch {
	case x <= xs[0]:
		lo = 0
	case x >= xs[n-1]:
		lo = n - 2
	default:
		lo = sort.SearchFloat64s(xs, x) - 1
	}

	span := xs[lo+1] - xs[lo]
	if span == 0 {
		return ys[lo]
	}
	frac := (x - xs[lo]) / span

	return ys[lo] + frac*(ys[lo+1]-ys[lo])
}

// FillMasked returns a copy of values where every masked sample is replaced
// by linear interpolation over the unmasked samples, extrapolating at the
// edges. With fewer than two unmasked knots the input is returned unchanged
// (as a copy).
func FillMasked(time, values []float64, mask []bool) []float64 {
	out := append([]float64(nil), values...)
	if len(mask) != len(values) || len(time) != len(values) {
		return out
	}

	var knotT, knotV []float64
	for i, bad := range mask {
		if !bad {
			knotT = append(knotT, time[i])
			knotV = append(knotV, values[i])
		}
	}
	if len(knotT) < 2 {
		return out
	}

	for i, bad := range mask {
		if bad {
			out[i] = atExtrapolated(time[i], knotT, knotV)
		}
	}

	return out
}

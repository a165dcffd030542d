package events

import (
	"math"

	"github.com/cwbudde/algo-photometry/trace"
)

// Metrics describes the shape of one event relative to its enclosing
// opposite-type neighbors. When the event is not enclosed on both sides,
// Valid is false and every numeric field is NaN.
type Metrics struct {
	Area      float64
	FWHM      float64
	RiseTime  float64
	DecayTime float64
	Valid     bool
}

func invalidMetrics() Metrics {
	nan := math.NaN()
	return Metrics{Area: nan, FWHM: nan, RiseTime: nan, DecayTime: nan}
}

// PeakMetrics computes per-peak shape metrics against the enclosing
// valleys. The baseline for each peak is the lower of its two enclosing
// valley levels; crossings are found scanning outward from the peak. When
// no valleys exist at all, the trace endpoints stand in as the enclosure.
func PeakMetrics(peaks, valleys []Event, values, time []float64) []Metrics {
	enclosure := eventIndices(valleys, len(values))
	out := make([]Metrics, len(peaks))

	for i, p := range peaks {
		pre, post, ok := enclose(enclosure, p.Index)
		if !ok {
			out[i] = invalidMetrics()
			continue
		}

		base := math.Min(values[pre], values[post])
		half := base + (values[p.Index]-base)/2

		rise := crossingOutward(values, p.Index, pre, func(v float64) bool { return v < half })
		decay := crossingOutward(values, p.Index, post, func(v float64) bool { return v < half })
		if rise < 0 || decay < 0 {
			out[i] = invalidMetrics()
			continue
		}

		segment := make([]float64, post-pre+1)
		for j := range segment {
			segment[j] = values[pre+j] - base
		}

		out[i] = Metrics{
			Area:      trace.Trapezoid(segment, time[pre:post+1]),
			FWHM:      time[decay] - time[rise],
			RiseTime:  time[p.Index] - time[rise],
			DecayTime: time[decay] - time[p.Index],
			Valid:     true,
		}
	}
	return out
}

// ValleyMetrics mirrors PeakMetrics for valleys: the reference level is the
// higher of the enclosing peak levels and the area is measured above the
// trace. Rise and decay times are reported relative to the half-depth
// crossings on each side.
func ValleyMetrics(peaks, valleys []Event, values, time []float64) []Metrics {
	enclosure := eventIndices(peaks, len(values))
	out := make([]Metrics, len(valleys))

	for i, v := range valleys {
		pre, post, ok := enclose(enclosure, v.Index)
		if !ok {
			out[i] = invalidMetrics()
			continue
		}

		level := math.Max(values[pre], values[post])
		half := level - (level-values[v.Index])/2

		rise := crossingOutward(values, v.Index, pre, func(x float64) bool { return x > half })
		decay := crossingOutward(values, v.Index, post, func(x float64) bool { return x > half })
		if rise < 0 || decay < 0 {
			out[i] = invalidMetrics()
			continue
		}

		segment := make([]float64, post-pre+1)
		for j := range segment {
			segment[j] = level - values[pre+j]
		}

		out[i] = Metrics{
			Area:      trace.Trapezoid(segment, time[pre:post+1]),
			FWHM:      time[decay] - time[rise],
			RiseTime:  time[v.Index] - time[rise],
			DecayTime: time[decay] - time[v.Index],
			Valid:     true,
		}
	}
	return out
}

// eventIndices extracts sorted sample indices from an event set. An empty
// set degenerates to the trace endpoints so lone events remain measurable.
func eventIndices(evts []Event, n int) []int {
	if len(evts) == 0 {
		return []int{0, n - 1}
	}
	idx := make([]int, len(evts))
	for i, e := range evts {
		idx[i] = e.Index
	}
	return idx
}

// enclose returns the nearest enclosure index strictly before and strictly
// after i. ok is false when either side is missing.
func enclose(sorted []int, i int) (pre, post int, ok bool) {
	pre, post = -1, -1
	for _, s := range sorted {
		if s < i {
			pre = s
		} else if s > i {
			post = s
			break
		}
	}
	return pre, post, pre >= 0 && post >= 0
}

// crossingOutward scans from the sample next to extremum toward bound and
// returns the first index whose value satisfies crossed, or -1 when the
// trace never crosses before the bound.
func crossingOutward(values []float64, extremum, bound int, crossed func(float64) bool) int {
	step := 1
	if bound < extremum {
		step = -1
	}
	for i := extremum + step; ; i += step {
		if crossed(values[i]) {
			return i
		}
		if i == bound {
			return -1
		}
	}
}

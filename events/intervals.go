package events

import (
	"errors"
	"sort"

	"github.com/cwbudde/algo-photometry/stats"
)

// ErrTooFewEvents is returned when fewer than two event times are available.
var ErrTooFewEvents = errors.New("events: need at least two events for interval statistics")

// IntervalStats summarizes the spacing between consecutive event times.
type IntervalStats struct {
	Intervals []float64
	Count     int
	Mean      float64
	Median    float64
	Std       float64
	Min       float64
	Max       float64
}

// Intervals sorts the given event times and reports descriptive statistics
// of their consecutive differences.
func Intervals(times []float64) (IntervalStats, error) {
	if len(times) < 2 {
		return IntervalStats{}, ErrTooFewEvents
	}

	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)

	intervals := make([]float64, len(sorted)-1)
	for i := range intervals {
		intervals[i] = sorted[i+1] - sorted[i]
	}

	minV, maxV := intervals[0], intervals[0]
	for _, v := range intervals[1:] {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}

	return IntervalStats{
		Intervals: intervals,
		Count:     len(intervals),
		Mean:      stats.Mean(intervals),
		Median:    stats.Median(intervals),
		Std:       stats.StdDev(intervals),
		Min:       minV,
		Max:       maxV,
	}, nil
}

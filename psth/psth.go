// Package psth builds peri-event time histograms: trace segments aligned to
// a set of event times, interpolated onto a shared relative-time grid and
// averaged across events.
package psth

import (
	"errors"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-photometry/dsp/interp"
	"github.com/cwbudde/algo-photometry/stats"
)

var (
	// ErrInvalidWindow is returned for a non-positive bin size or an empty
	// analysis window.
	ErrInvalidWindow = errors.New("psth: invalid window or bin size")
	// ErrNoValidEvents is returned when no event's window fits inside the
	// trace's time range.
	ErrNoValidEvents = errors.New("psth: no events with a fully in-range window")
	// ErrBadTrace is returned when the trace is too short or misshapen.
	ErrBadTrace = errors.New("psth: trace needs matching time and value arrays with at least two samples")
)

// Result is the averaged event-aligned response.
type Result struct {
	// TimeBins holds the bin centers relative to the event, from -pre+bin/2
	// upward in steps of bin.
	TimeBins []float64
	Mean     []float64
	// SEM is the per-bin standard error of the mean across events.
	SEM        []float64
	TrialCount int
}

// Compute aligns the trace around each event time and averages across
// events. Events whose window [t-pre, t+post] would extend past the trace's
// time range are excluded entirely rather than truncated.
func Compute(time, values, eventTimes []float64, pre, post, bin float64) (Result, error) {
	if len(time) < 2 || len(time) != len(values) {
		return Result{}, ErrBadTrace
	}
	if bin <= 0 || pre < 0 || post < 0 || pre+post <= 0 {
		return Result{}, ErrInvalidWindow
	}

	centers := binCenters(pre, post, bin)
	tMin, tMax := time[0], time[len(time)-1]

	var rows [][]float64
	for _, e := range eventTimes {
		if e < tMin+pre || e > tMax-post {
			continue
		}

		start := sort.SearchFloat64s(time, e-pre)
		end := sort.SearchFloat64s(time, e+post)
		if end >= len(time) || end-start < 2 {
			continue
		}

		rel := make([]float64, end-start)
		for i := range rel {
			rel[i] = time[start+i] - e
		}

		rows = append(rows, interp.Linear(centers, rel, values[start:end]))
	}
	if len(rows) == 0 {
		return Result{}, ErrNoValidEvents
	}

	n := len(rows)
	sum := make([]float64, len(centers))
	for _, row := range rows {
		vecmath.AddBlockInPlace(sum, row)
	}

	mean := make([]float64, len(centers))
	vecmath.ScaleBlock(mean, sum, 1/float64(n))

	sem := make([]float64, len(centers))
	column := make([]float64, n)
	for j := range sem {
		for i, row := range rows {
			column[i] = row[j]
		}
		sem[j] = stats.StdDev(column) / math.Sqrt(float64(n))
	}

	return Result{TimeBins: centers, Mean: mean, SEM: sem, TrialCount: n}, nil
}

// binCenters lays out the relative-time grid: the window [-pre, post] split
// into bins of the given size, addressed by their midpoints.
func binCenters(pre, post, bin float64) []float64 {
	n := int(math.Ceil((pre+post)/bin+1-1e-9)) - 1
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = -pre + bin/2 + float64(i)*bin
	}
	return centers
}

// Package trace defines the time-series data model shared by all
// processing stages: uniformly sampled traces, dual-channel recordings,
// stride decimation, and trapezoidal integration.
package trace

import (
	"errors"
	"math"
)

// Errors returned by trace validation.
var (
	ErrEmpty            = errors.New("trace: empty trace")
	ErrLengthMismatch   = errors.New("trace: time and value lengths differ")
	ErrNonMonotonicTime = errors.New("trace: time axis must be strictly increasing")
	ErrInvalidRate      = errors.New("trace: sample rate must be positive")
)

// Trace is a uniformly sampled time series. Time carries the sample
// instants in seconds and Values the recorded intensity at each instant.
type Trace struct {
	Time   []float64
	Values []float64
	Rate   float64 // samples per second
}

// New creates a Trace with a synthetic time axis starting at 0.
func New(values []float64, rate float64) (Trace, error) {
	if len(values) == 0 {
		return Trace{}, ErrEmpty
	}
	if rate <= 0 {
		return Trace{}, ErrInvalidRate
	}

	t := make([]float64, len(values))
	dt := 1 / rate
	for i := range t {
		t[i] = float64(i) * dt
	}

	return Trace{Time: t, Values: values, Rate: rate}, nil
}

// Len returns the number of samples.
func (tr Trace) Len() int { return len(tr.Values) }

// Validate checks the structural invariants: non-empty, equal lengths,
// positive rate, strictly increasing time.
func (tr Trace) Validate() error {
	if len(tr.Values) == 0 {
		return ErrEmpty
	}
	if len(tr.Time) != len(tr.Values) {
		return ErrLengthMismatch
	}
	if tr.Rate <= 0 {
		return ErrInvalidRate
	}
	for i := 1; i < len(tr.Time); i++ {
		if tr.Time[i] <= tr.Time[i-1] {
			return ErrNonMonotonicTime
		}
	}

	return nil
}

// Clone returns a deep copy of the trace.
func (tr Trace) Clone() Trace {
	out := Trace{Rate: tr.Rate}
	if tr.Time != nil {
		out.Time = append([]float64(nil), tr.Time...)
	}
	if tr.Values != nil {
		out.Values = append([]float64(nil), tr.Values...)
	}

	return out
}

// DualChannelRecording couples a fluorescence signal trace with a
// co-recorded isosbestic reference sharing the same time base.
// Reference may be empty when no reference channel was acquired.
type DualChannelRecording struct {
	Time      []float64
	Signal    []float64
	Reference []float64
	Rate      float64
}

// Validate checks the recording invariants. An empty time axis is allowed
// (consumers synthesize one from Rate), as is an empty reference; a present
// array must match the signal length.
func (r DualChannelRecording) Validate() error {
	if len(r.Signal) == 0 {
		return ErrEmpty
	}
	if r.Rate <= 0 {
		return ErrInvalidRate
	}
	if len(r.Time) != 0 && len(r.Time) != len(r.Signal) {
		return ErrLengthMismatch
	}
	if len(r.Reference) != 0 && len(r.Reference) != len(r.Signal) {
		return ErrLengthMismatch
	}

	return nil
}

// HasReference reports whether a reference channel is present.
func (r DualChannelRecording) HasReference() bool { return len(r.Reference) > 0 }

// TimeAxis returns n sample instants at the given rate, starting at 0.
func TimeAxis(rate float64, n int) []float64 {
	out := make([]float64, n)
	if rate <= 0 {
		return out
	}
	dt := 1 / rate
	for i := range out {
		out[i] = float64(i) * dt
	}

	return out
}

// Decimate keeps every factor-th sample, starting at index 0, so
// out[i] == in[i*factor] and len(out) == ceil(len(in)/factor).
// A factor below 2 returns a copy of the input.
func Decimate(in []float64, factor int) []float64 {
	if in == nil {
		return nil
	}
	if factor < 2 {
		return append([]float64(nil), in...)
	}

	out := make([]float64, 0, (len(in)+factor-1)/factor)
	for i := 0; i < len(in); i += factor {
		out = append(out, in[i])
	}

	return out
}

// DecimateMask is Decimate for boolean masks.
func DecimateMask(in []bool, factor int) []bool {
	if in == nil {
		return nil
	}
	if factor < 2 {
		return append([]bool(nil), in...)
	}

	out := make([]bool, 0, (len(in)+factor-1)/factor)
	for i := 0; i < len(in); i += factor {
		out = append(out, in[i])
	}

	return out
}

// Trapezoid integrates y over x using the trapezoidal rule.
// The slices must have equal length; fewer than two samples integrate to 0.
func Trapezoid(y, x []float64) float64 {
	n := len(y)
	if n < 2 || len(x) != n {
		return 0
	}

	var area float64
	for i := 1; i < n; i++ {
		area += 0.5 * (y[i] + y[i-1]) * (x[i] - x[i-1])
	}

	return area
}

// SanitizeNonFinite replaces NaN and Inf samples with zero in place and
// reports whether any replacement happened.
func SanitizeNonFinite(data []float64) bool {
	dirty := false
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = 0
			dirty = true
		}
	}

	return dirty
}

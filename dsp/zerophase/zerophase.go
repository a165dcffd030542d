// Package zerophase applies Butterworth filtering in a forward+backward
// pass so the output carries no group delay, which keeps detected event
// times aligned with the raw recording.
//
// The stage fails soft: structurally unusable inputs (empty, too short for
// the order, cutoffs outside (0, Nyquist)) return the input unchanged
// together with a diagnostic error, never a panic. The same holds when the
// numeric kernel produces non-finite output.
package zerophase

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-photometry/dsp/biquad"
	"github.com/cwbudde/algo-photometry/dsp/butter"
)

// Diagnostics returned alongside the unmodified input.
var (
	ErrEmptyInput    = errors.New("zerophase: empty input")
	ErrTooShort      = errors.New("zerophase: input too short for filter order")
	ErrInvalidCutoff = errors.New("zerophase: cutoff outside (0, Nyquist) or misordered")
	ErrInvalidRate   = errors.New("zerophase: sample rate must be positive")
	ErrDesignFailed  = errors.New("zerophase: filter design failed")
	ErrNonFinite     = errors.New("zerophase: filter produced non-finite output")
)

// Kind selects the frequency response shape.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Bandstop
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Bandstop:
		return "bandstop"
	default:
		return "unknown"
	}
}

// Backend is the numeric kernel that runs one forward pass of a biquad
// cascade over data in place. Alternative implementations (SIMD, GPU
// offload) must agree with the reference implementation within
// floating-point tolerance.
type Backend interface {
	Name() string
	Apply(sections []biquad.Coefficients, data []float64)
}

// referenceBackend is the required portable implementation.
type referenceBackend struct{}

func (referenceBackend) Name() string { return "reference" }

func (referenceBackend) Apply(sections []biquad.Coefficients, data []float64) {
	biquad.NewChain(sections).ProcessBlock(data)
}

// DefaultBackend returns the reference backend.
func DefaultBackend() Backend { return referenceBackend{} }

type config struct {
	backend   Backend
	zeroPhase bool
	edgePad   bool
}

// Option configures a Filter call.
type Option func(*config)

// WithBackend substitutes the numeric kernel.
func WithBackend(b Backend) Option {
	return func(c *config) {
		if b != nil {
			c.backend = b
		}
	}
}

// WithZeroPhase toggles the backward pass. Default true.
func WithZeroPhase(enabled bool) Option {
	return func(c *config) { c.zeroPhase = enabled }
}

// WithEdgePadding toggles reflection padding around the trace edges.
// Default true.
func WithEdgePadding(enabled bool) Option {
	return func(c *config) { c.edgePad = enabled }
}

// Filter applies a Butterworth filter of the given kind and order.
// cutoff holds one frequency for Lowpass/Highpass and a [low, high] pair
// for Bandpass/Bandstop, all in Hz.
//
// The returned slice always has the input's length. When the input cannot
// be filtered, a copy of it is returned together with a diagnostic error;
// non-finite input samples are replaced by zero before filtering.
func Filter(data, cutoff []float64, fs float64, kind Kind, order int, opts ...Option) ([]float64, error) {
	cfg := config{backend: DefaultBackend(), zeroPhase: true, edgePad: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := append([]float64(nil), data...)
	if len(out) == 0 {
		return out, ErrEmptyInput
	}
	if fs <= 0 {
		return out, ErrInvalidRate
	}

	trimmed := trimNonFinite(out)

	if err := validateCutoff(cutoff, fs, kind); err != nil {
		return trimmed, err
	}

	if order <= 0 {
		order = 2
	}
	if minLen := max(6*order, 9); len(out) < minLen {
		return trimmed, ErrTooShort
	}

	filtered, err := run(trimmed, cutoff, fs, kind, order, cfg)
	if err != nil {
		return trimmed, err
	}

	for _, v := range filtered {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return trimmed, ErrNonFinite
		}
	}

	return filtered, nil
}

// run designs the cascade(s) and applies them per kind. Bandstop sums the
// low and high branch outputs; the other kinds run a single cascade.
func run(data, cutoff []float64, fs float64, kind Kind, order int, cfg config) ([]float64, error) {
	switch kind {
	case Lowpass:
		return apply(data, butter.ButterworthLP(cutoff[0], order, fs), cutoff[0], fs, cfg)
	case Highpass:
		return apply(data, butter.ButterworthHP(cutoff[0], order, fs), cutoff[0], fs, cfg)
	case Bandpass:
		return apply(data, butter.ButterworthBP(cutoff[0], cutoff[1], order, fs), cutoff[0], fs, cfg)
	case Bandstop:
		low, err := apply(data, butter.ButterworthLP(cutoff[0], order, fs), cutoff[0], fs, cfg)
		if err != nil {
			return nil, err
		}
		high, err := apply(data, butter.ButterworthHP(cutoff[1], order, fs), cutoff[0], fs, cfg)
		if err != nil {
			return nil, err
		}
		for i := range low {
			low[i] += high[i]
		}
		return low, nil
	default:
		return nil, ErrDesignFailed
	}
}

// apply runs one cascade over a padded copy of data, forward and (when
// configured) backward, and strips the padding again.
func apply(data []float64, sections []biquad.Coefficients, minCutoff, fs float64, cfg config) ([]float64, error) {
	if sections == nil {
		return nil, ErrDesignFailed
	}

	pad := 0
	if cfg.edgePad {
		pad = padLength(len(data), minCutoff, fs)
	}

	buf := padOddReflect(data, pad)

	cfg.backend.Apply(sections, buf)
	if cfg.zeroPhase {
		reverse(buf)
		cfg.backend.Apply(sections, buf)
		reverse(buf)
	}

	return buf[pad : pad+len(data)], nil
}

// padLength sizes the reflection padding to roughly three periods of the
// lowest frequency of interest, capped at the trace length.
func padLength(n int, minCutoff, fs float64) int {
	if minCutoff <= 0 {
		return 0
	}

	pad := int(3 * fs / minCutoff)
	if pad < 1 {
		pad = 1
	}
	if pad > n-1 {
		pad = n - 1
	}

	return pad
}

// padOddReflect extends data by pad samples on both sides using odd
// reflection about the end points, which preserves the signal's level and
// slope across the boundary.
func padOddReflect(data []float64, pad int) []float64 {
	n := len(data)
	buf := make([]float64, n+2*pad)
	copy(buf[pad:], data)

	for i := 1; i <= pad; i++ {
		buf[pad-i] = 2*data[0] - data[i]
		buf[pad+n-1+i] = 2*data[n-1] - data[n-1-i]
	}

	return buf
}

func reverse(data []float64) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}

// trimNonFinite zeroes NaN/Inf samples in place and returns data.
func trimNonFinite(data []float64) []float64 {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = 0
		}
	}

	return data
}

func validateCutoff(cutoff []float64, fs float64, kind Kind) error {
	nyq := fs / 2

	switch kind {
	case Lowpass, Highpass:
		if len(cutoff) < 1 {
			return ErrInvalidCutoff
		}
		if cutoff[0] <= 0 || cutoff[0] >= nyq {
			return ErrInvalidCutoff
		}
	case Bandpass, Bandstop:
		if len(cutoff) < 2 {
			return ErrInvalidCutoff
		}
		if cutoff[0] <= 0 || cutoff[1] <= 0 || cutoff[0] >= nyq || cutoff[1] >= nyq {
			return ErrInvalidCutoff
		}
		if cutoff[0] >= cutoff[1] {
			return ErrInvalidCutoff
		}
	default:
		return ErrInvalidCutoff
	}

	return nil
}

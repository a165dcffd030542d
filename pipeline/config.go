package pipeline

import "github.com/cwbudde/algo-photometry/dsp/zerophase"

// Config holds the immutable per-call processing parameters. Construct it
// with DefaultConfig and adjust fields before passing it to Process; the
// pipeline never mutates it.
type Config struct {
	FilterKind zerophase.Kind
	LowCutoff  float64 // Hz, lower band edge / highpass cutoff
	HighCutoff float64 // Hz, upper band edge / lowpass cutoff
	Order      int
	ZeroPhase  bool

	DriftCorrection bool
	DriftDegree     int

	DownsampleFactor int
	EdgeProtection   bool

	// FilterRawSignals selects whether the returned raw channels carry the
	// filtered or the original samples.
	FilterRawSignals bool

	// ArtifactThreshold scales the MAD-based outlier bound on the
	// reference channel.
	ArtifactThreshold float64

	// Backend optionally replaces the filter kernel; nil runs the
	// built-in scalar kernel.
	Backend zerophase.Backend
}

// DefaultConfig returns the standard photometry processing parameters:
// 0.001–5 Hz bandpass, order 2, zero phase, quadratic drift removal,
// no decimation, 3σ artifact threshold.
func DefaultConfig() Config {
	return Config{
		FilterKind:        zerophase.Bandpass,
		LowCutoff:         0.001,
		HighCutoff:        5.0,
		Order:             2,
		ZeroPhase:         true,
		DriftCorrection:   true,
		DriftDegree:       2,
		DownsampleFactor:  1,
		EdgeProtection:    true,
		FilterRawSignals:  true,
		ArtifactThreshold: 3.0,
	}
}

// cutoff returns the cutoff list the filter stage expects for the
// configured kind.
func (c Config) cutoff() []float64 {
	switch c.FilterKind {
	case zerophase.Lowpass:
		return []float64{c.HighCutoff}
	case zerophase.Highpass:
		return []float64{c.LowCutoff}
	default:
		return []float64{c.LowCutoff, c.HighCutoff}
	}
}

// filterOptions assembles the zerophase options for this config.
func (c Config) filterOptions() []zerophase.Option {
	opts := []zerophase.Option{
		zerophase.WithZeroPhase(c.ZeroPhase),
		zerophase.WithEdgePadding(c.EdgeProtection),
	}
	if c.Backend != nil {
		opts = append(opts, zerophase.WithBackend(c.Backend))
	}

	return opts
}

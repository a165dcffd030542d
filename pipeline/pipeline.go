// Package pipeline turns a raw dual-channel photometry recording into an
// analysis-ready dF/F trace. One Process call runs artifact detection,
// zero-phase filtering, bleaching/motion correction, polynomial drift
// removal, percentile-baseline normalization then stride decimation, and
// carries no state across calls.
//
// Stages fail soft: a stage that cannot run passes its input through, so a
// degenerate recording still produces the best available output. Only the
// structural boundary checks (empty signal, non-positive rate, misordered
// cutoffs) reject the call as a whole.
package pipeline

import (
	"errors"

	"github.com/cwbudde/algo-photometry/dsp/zerophase"
	"github.com/cwbudde/algo-photometry/trace"
)

// Boundary validation errors.
var (
	ErrNoRecording    = errors.New("pipeline: empty recording")
	ErrInvalidRate    = errors.New("pipeline: sample rate must be positive")
	ErrInvalidCutoffs = errors.New("pipeline: low cutoff must be below high cutoff")
	ErrRecordingShape = errors.New("pipeline: recording arrays must be index-aligned")
)

// ProcessedTrace is the pipeline output. All slices share one length and
// index alignment; Raw2 and Baseline are nil when no reference channel or
// no drift correction was available.
type ProcessedTrace struct {
	Time         []float64
	DFF          []float64 // percent change over baseline
	Raw1         []float64 // signal channel, filtered or original per config
	Raw2         []float64 // reference channel, filtered or original per config
	Baseline     []float64 // fitted drift curve
	ArtifactMask []bool    // true where the reference flagged an artifact
	Rate         float64   // effective sample rate after decimation
}

// Len returns the per-array sample count.
func (p ProcessedTrace) Len() int { return len(p.DFF) }

// Process runs the full pipeline on one recording. The recording and
// config are read-only; every output array is freshly allocated.
//
// The returned error is non-nil only for boundary-invalid calls. Stage
// diagnostics (filter fallback, degenerate fits) degrade the output to the
// best prior stage result instead of failing the call.
func Process(rec trace.DualChannelRecording, cfg Config) (ProcessedTrace, error) {
	if err := validate(rec, cfg); err != nil {
		return ProcessedTrace{}, err
	}

	signal := append([]float64(nil), rec.Signal...)
	trace.SanitizeNonFinite(signal)

	var reference []float64
	if rec.HasReference() {
		reference = append([]float64(nil), rec.Reference...)
		trace.SanitizeNonFinite(reference)
	}

	// Artifacts are detected on the raw reference, before filtering can
	// smear them out.
	var mask []bool
	if reference != nil {
		mask = DetectArtifacts(reference, cfg.ArtifactThreshold)
	} else {
		mask = make([]bool, len(signal))
	}

	originalSignal := append([]float64(nil), signal...)
	originalReference := append([]float64(nil), reference...)

	// Filtering. On failure the stage hands back the pre-filter samples,
	// so the chain continues with those.
	cutoff := cfg.cutoff()
	opts := cfg.filterOptions()
	signal, _ = zerophase.Filter(signal, cutoff, rec.Rate, cfg.FilterKind, cfg.Order, opts...)
	if reference != nil {
		reference, _ = zerophase.Filter(reference, cutoff, rec.Rate, cfg.FilterKind, cfg.Order, opts...)
	}

	// Motion/bleaching correction against the reference.
	corrected := signal
	if reference != nil {
		fitted := FitBleaching(signal, reference)
		corrected = make([]float64, len(signal))
		for i := range signal {
			corrected[i] = signal[i] - fitted[i]
		}
	}

	// Drift removal.
	detrended := corrected
	var baseline []float64
	if cfg.DriftCorrection {
		detrended, baseline = CorrectDrift(corrected, cfg.DriftDegree)
	}

	dff, _ := NormalizeDFF(detrended)

	// Decimation applies one stride to every parallel array so index
	// alignment survives.
	factor := cfg.DownsampleFactor
	if factor < 1 {
		factor = 1
	}

	raw1, raw2 := signal, reference
	if !cfg.FilterRawSignals {
		raw1, raw2 = originalSignal, originalReference
	}

	timeAxis := rec.Time
	if timeAxis == nil {
		timeAxis = trace.TimeAxis(rec.Rate, len(rec.Signal))
	}

	out := ProcessedTrace{
		Time:         trace.Decimate(timeAxis, factor),
		DFF:          trace.Decimate(dff, factor),
		Raw1:         trace.Decimate(raw1, factor),
		Raw2:         trace.Decimate(raw2, factor),
		Baseline:     trace.Decimate(baseline, factor),
		ArtifactMask: trace.DecimateMask(mask, factor),
		Rate:         rec.Rate / float64(factor),
	}

	return out, nil
}

func validate(rec trace.DualChannelRecording, cfg Config) error {
	if len(rec.Signal) == 0 {
		return ErrNoRecording
	}
	if rec.Rate <= 0 {
		return ErrInvalidRate
	}
	if cfg.LowCutoff >= cfg.HighCutoff {
		return ErrInvalidCutoffs
	}
	if err := rec.Validate(); err != nil {
		return ErrRecordingShape
	}

	return nil
}

// Package synth generates deterministic dual-channel photometry recordings
// for demos and tests: a slow carrier shared by both channels, transient
// bumps on the signal channel only, and seeded white noise.
package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-photometry/trace"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	rate float64
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator producing samples at the given rate.
func NewGenerator(sampleRate float64, opts ...Option) *Generator {
	g := &Generator{rate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Rate returns the generator sample rate.
func (g *Generator) Rate() float64 {
	return g.rate
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("synth: sine samples must be > 0: %d", samples)
	}
	if g.rate <= 0 {
		return nil, fmt.Errorf("synth: sample rate must be > 0: %f", g.rate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.rate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("synth: noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("synth: noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// AddTransients superimposes Gaussian bumps of the given amplitude and
// width (sigma, seconds) centered at the given times.
func (g *Generator) AddTransients(data []float64, times []float64, amplitude, sigma float64) error {
	if sigma <= 0 {
		return fmt.Errorf("synth: transient sigma must be > 0: %f", sigma)
	}
	sigmaSamples := sigma * g.rate
	for _, t := range times {
		center := t * g.rate
		for i := range data {
			d := (float64(i) - center) / sigmaSamples
			data[i] += amplitude * math.Exp(-0.5*d*d)
		}
	}
	return nil
}

// RecordingParams describes a synthetic dual-channel recording.
type RecordingParams struct {
	Duration       float64 // seconds
	Baseline       float64 // additive offset on both channels
	CarrierFreq    float64 // slow sinusoid shared by both channels, Hz
	CarrierAmp     float64
	TransientTimes []float64 // bump centers on the signal channel, seconds
	TransientAmp   float64
	TransientSigma float64 // bump width, seconds
	NoiseAmp       float64 // per-channel white noise amplitude
}

// Recording builds a dual-channel recording: both channels carry the
// baseline and slow carrier, only the signal channel carries the
// transients, and each channel gets independent noise.
func (g *Generator) Recording(p RecordingParams) (trace.DualChannelRecording, error) {
	if p.Duration <= 0 || g.rate <= 0 {
		return trace.DualChannelRecording{}, fmt.Errorf("synth: duration and rate must be > 0")
	}
	samples := int(p.Duration * g.rate)

	carrier, err := g.Sine(p.CarrierFreq, p.CarrierAmp, samples)
	if err != nil {
		return trace.DualChannelRecording{}, err
	}

	signal := make([]float64, samples)
	reference := make([]float64, samples)
	for i, c := range carrier {
		signal[i] = p.Baseline + c
		reference[i] = p.Baseline + c
	}

	if len(p.TransientTimes) > 0 {
		if err := g.AddTransients(signal, p.TransientTimes, p.TransientAmp, p.TransientSigma); err != nil {
			return trace.DualChannelRecording{}, err
		}
	}

	if p.NoiseAmp > 0 {
		sigNoise, err := g.WhiteNoise(p.NoiseAmp, samples)
		if err != nil {
			return trace.DualChannelRecording{}, err
		}
		refGen := &Generator{rate: g.rate, seed: g.seed + 1}
		refNoise, err := refGen.WhiteNoise(p.NoiseAmp, samples)
		if err != nil {
			return trace.DualChannelRecording{}, err
		}
		for i := range signal {
			signal[i] += sigNoise[i]
			reference[i] += refNoise[i]
		}
	}

	return trace.DualChannelRecording{
		Time:      trace.TimeAxis(g.rate, samples),
		Signal:    signal,
		Reference: reference,
		Rate:      g.rate,
	}, nil
}

package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// AddGaussianBump adds a Gaussian transient of the given amplitude and
// width (sigma, in samples) centered at the given sample index.
func AddGaussianBump(data []float64, center int, amplitude, sigmaSamples float64) {
	for i := range data {
		d := float64(i-center) / sigmaSamples
		data[i] += amplitude * math.Exp(-0.5*d*d)
	}
}

// TimeAxis returns length sample instants at the given rate, starting at 0.
func TimeAxis(sampleRate float64, length int) []float64 {
	out := make([]float64, length)
	dt := 1 / sampleRate
	for i := range out {
		out[i] = float64(i) * dt
	}
	return out
}

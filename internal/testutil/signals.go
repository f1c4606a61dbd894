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

// SineWithPeriod generates a sine wave with an exact integer period in samples.
// Useful for pitch tests where the expected period must be unambiguous.
func SineWithPeriod(period int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	step := 2 * math.Pi / float64(period)
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

// Silence generates an all-zero signal.
func Silence(length int) []float64 {
	return make([]float64, length)
}

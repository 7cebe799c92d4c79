package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a float32 sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Silence returns length zero samples.
func Silence(length int) []float32 {
	return make([]float32, length)
}

// Ramp returns start, start+1, ... so every sample identifies its position.
// Values stay exact in float32 up to 2^24.
func Ramp(start, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = float32(start + i)
	}
	return out
}

// Concat joins signals end to end.
func Concat(parts ...[]float32) []float32 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float32, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Chunks splits signal into consecutive chunkSize slices, dropping a short tail.
func Chunks(signal []float32, chunkSize int) [][]float32 {
	if chunkSize <= 0 {
		return nil
	}
	out := make([][]float32, 0, len(signal)/chunkSize)
	for i := 0; i+chunkSize <= len(signal); i += chunkSize {
		out = append(out, signal[i:i+chunkSize])
	}
	return out
}

// Package level measures the loudness of sample streams so that detector
// power thresholds can be related to real input levels.
package level

import "math"

// Level holds level statistics of a sample stream.
type Level struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64 // dBFS
	Peak          float64 // max |x|
	PeakdB        float64 // dBFS
	Energy        float64 // sum of squares
	ZeroCrossings int
}

// WindowPower returns the sum of squares a window of windowSize samples at
// the measured RMS level would have. Detector power thresholds compare
// against this quantity.
func (l Level) WindowPower(windowSize int) float64 {
	return l.RMS * l.RMS * float64(windowSize)
}

// ampTodB converts an amplitude to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func emptyLevel() Level {
	return Level{
		RMSdB:  math.Inf(-1),
		PeakdB: math.Inf(-1),
	}
}

// Measure computes the level of a complete signal.
func Measure(samples []float32) Level {
	var m Meter
	m.Update(samples)
	return m.Result()
}

// Meter accumulates level statistics block by block.
type Meter struct {
	n             int
	sum           float64
	sumSq         float64
	peak          float64
	zeroCrossings int
	lastSample    float32
}

// Update adds a block of samples to the running statistics.
func (m *Meter) Update(samples []float32) {
	for _, x := range samples {
		v := float64(x)
		m.sum += v
		m.sumSq += v * v
		if a := math.Abs(v); a > m.peak {
			m.peak = a
		}

		if m.n > 0 && m.lastSample*x < 0 {
			m.zeroCrossings++
		}
		m.lastSample = x
		m.n++
	}
}

// Result returns the statistics of everything passed to Update so far.
func (m *Meter) Result() Level {
	if m.n == 0 {
		return emptyLevel()
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	return Level{
		Length:        m.n,
		DC:            m.sum / nf,
		RMS:           rms,
		RMSdB:         ampTodB(rms),
		Peak:          m.peak,
		PeakdB:        ampTodB(m.peak),
		Energy:        m.sumSq,
		ZeroCrossings: m.zeroCrossings,
	}
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}

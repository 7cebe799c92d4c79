package pitch

import "time"

// SamplesToDuration converts a sample count at sampleRate into a duration.
func SamplesToDuration(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(samples) * int64(time.Second) / int64(sampleRate))
}

// DurationToSamples converts d into a whole number of samples at sampleRate,
// rounding down.
func DurationToSamples(d time.Duration, sampleRate int) int {
	if sampleRate <= 0 || d <= 0 {
		return 0
	}
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

// Time returns the position of p's window relative to the start of the stream.
func (p Pitch) Time(sampleRate int) time.Duration {
	return SamplesToDuration(p.T, sampleRate)
}

package main

import (
	"fmt"
	"math"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName returns the nearest equal-tempered note (A4 = 440 Hz) and the
// deviation from it in cents.
func noteName(freq float64) (string, int) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return "-", 0
	}

	// Semitones relative to C4.
	semitones := 12*math.Log2(freq/440) + 9
	nearest := math.Round(semitones)
	cents := int(math.Round(100 * (semitones - nearest)))

	idx := int(nearest) % 12
	if idx < 0 {
		idx += 12
	}
	octave := 4 + int(math.Floor(nearest/12))

	return fmt.Sprintf("%s%d", noteNames[idx], octave), cents
}

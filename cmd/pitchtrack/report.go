package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pitch/dsp/pitch"
)

func printTable(w io.Writer, pitches []pitch.Pitch, sampleRate int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Sample\tTime\tFrequency [Hz]\tNote\tCents\tClarity\tOnset\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "------\t----\t--------------\t----\t-----\t-------\t-----\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, p := range pitches {
		note, cents := noteName(float64(p.Frequency))
		onset := ""
		if p.Onset {
			onset = "*"
		}
		if _, err := fmt.Fprintf(tw, "%d\t%.3fs\t%.2f\t%s\t%+d\t%.3f\t%s\n",
			p.T,
			p.Time(sampleRate).Seconds(),
			p.Frequency,
			note,
			cents,
			p.Clarity,
			onset,
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

type summary struct {
	count           int
	onsets          int
	meanFrequency   float64
	medianFrequency float64
	stdFrequency    float64
	meanClarity     float64
}

func summarize(pitches []pitch.Pitch) summary {
	s := summary{count: len(pitches)}
	if len(pitches) == 0 {
		return s
	}

	freqs := make([]float64, len(pitches))
	clarities := make([]float64, len(pitches))
	for i, p := range pitches {
		freqs[i] = float64(p.Frequency)
		clarities[i] = float64(p.Clarity)
		if p.Onset {
			s.onsets++
		}
	}

	s.meanFrequency = stat.Mean(freqs, nil)
	s.meanClarity = stat.Mean(clarities, nil)
	if len(freqs) > 1 {
		s.stdFrequency = stat.StdDev(freqs, nil)
	}

	slices.Sort(freqs)
	s.medianFrequency = stat.Quantile(0.5, stat.Empirical, freqs, nil)

	return s
}

func printSummary(w io.Writer, s summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	note, _ := noteName(s.medianFrequency)
	rows := []struct {
		label string
		value string
	}{
		{"pitches", fmt.Sprintf("%d", s.count)},
		{"onsets", fmt.Sprintf("%d", s.onsets)},
		{"mean frequency", fmt.Sprintf("%.2f Hz", s.meanFrequency)},
		{"median frequency", fmt.Sprintf("%.2f Hz (%s)", s.medianFrequency, note)},
		{"frequency std dev", fmt.Sprintf("%.2f Hz", s.stdFrequency)},
		{"mean clarity", fmt.Sprintf("%.3f", s.meanClarity)},
	}

	if _, err := fmt.Fprintln(tw); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return tw.Flush()
}

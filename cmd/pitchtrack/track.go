package main

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-pitch/dsp/buffer"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/stats/level"
)

// track feeds samples chunk by chunk into a ring and drains the detector
// after every push that leaves a full window in the ring. A trailing partial
// chunk is zero-padded.
func track(samples []float32, sampleRate int, opts options, logger *slog.Logger) ([]pitch.Pitch, error) {
	// The ring holds two windows; a drain leaves less than window+hop
	// unprocessed, so chunks up to half a window never outrun the cursor.
	if opts.chunkSize <= 0 || opts.chunkSize > opts.windowSize/2 {
		return nil, fmt.Errorf("chunk size %d must be in [1, %d]", opts.chunkSize, opts.windowSize/2)
	}

	det, err := pitch.NewDetector(opts.estimator, opts.windowSize, sampleRate,
		pitch.WithPowerThreshold(opts.power),
		pitch.WithClarityThreshold(opts.clarity),
		pitch.WithTaper(opts.taper),
		pitch.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	ring, err := buffer.NewRing(opts.chunkSize, buffer.ChunksForWindow(opts.windowSize, opts.chunkSize))
	if err != nil {
		return nil, err
	}

	var (
		pitches []pitch.Pitch
		view    []float32
		meter   level.Meter
	)
	chunk := make([]float32, opts.chunkSize)

	for pos := 0; pos < len(samples); pos += opts.chunkSize {
		n := copy(chunk, samples[pos:])
		clear(chunk[n:])
		meter.Update(chunk[:n])

		if err := ring.Push(chunk); err != nil {
			return nil, err
		}
		if ring.Len() < det.WindowSize() {
			continue
		}

		var start int
		start, view = ring.SnapshotInto(view)
		if err := det.Ingest(start, view); err != nil {
			return nil, err
		}
		pitches = append(pitches, det.Drain()...)
	}

	in := meter.Result()
	logger.Info("input level",
		"rms_dbfs", in.RMSdB,
		"peak_dbfs", in.PeakdB,
		"window_power", in.WindowPower(opts.windowSize),
		"power_threshold", opts.power,
	)
	if in.WindowPower(opts.windowSize) < float64(opts.power) {
		logger.Warn("input below power threshold",
			"window_power", in.WindowPower(opts.windowSize),
			"power_threshold", opts.power,
		)
	}

	if len(pitches) == 0 {
		logger.Warn("no confident pitch found",
			"samples", len(samples),
			"window", opts.windowSize,
			"estimator", opts.estimator.String(),
		)
	}

	return pitches, nil
}

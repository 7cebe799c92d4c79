package pitch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

const (
	// MaxWindowSize bounds the per-detector scratch block.
	MaxWindowSize = 8192
	// DefaultSampleRate is used by callers that have no device rate at hand.
	DefaultSampleRate = 44100

	minWindowSize = 4
)

// Pitch is one confident pitch observation.
type Pitch struct {
	// T is the absolute sample index of the first sample of the window,
	// not of the sample one hop later. Consecutive windows differ by HopSize.
	T         int
	Frequency float32
	Clarity   float32
	// Onset is set when the preceding window had no confident pitch.
	Onset bool
}

// NotEnoughSamples reports that the detector has never held a full window.
type NotEnoughSamples struct {
	Required  int
	Available int
}

// Result is returned by Detector.Pitches.
type Result struct {
	Pitches []Pitch
	// NotEnoughSamples is non-nil until the first successful Ingest.
	NotEnoughSamples *NotEnoughSamples
}

// Ready reports whether the detector had enough samples to analyze.
func (r Result) Ready() bool {
	return r.NotEnoughSamples == nil
}

// Detector incrementally analyzes a stream of overlapping sample views.
//
// Cursor invariants: cursor >= viewStart, and the cursor only moves forward,
// one hop per analyzed window.
type Detector struct {
	kind       Kind
	windowSize int
	hopSize    int
	sampleRate int

	powerThreshold   float32
	clarityThreshold float32

	estimator Estimator
	logger    *slog.Logger

	view      []float32
	viewStart int
	cursor    int
	ingested  bool

	lastFrequency float32
	hasLast       bool

	// scratch is the single working block windows are extracted into.
	scratch []float32
}

// NewDetector creates a detector running the built-in estimator of the given
// kind over windows of windowSize samples at sampleRate.
func NewDetector(kind Kind, windowSize, sampleRate int, opts ...Option) (*Detector, error) {
	if err := validateWindowSize(windowSize); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEstimatorKind, int(kind))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	est := cfg.estimator
	if est == nil {
		var err error
		est, err = NewEstimator(kind, windowSize, cfg.taper)
		if err != nil {
			return nil, err
		}
	}

	return &Detector{
		kind:             kind,
		windowSize:       windowSize,
		hopSize:          windowSize / 4,
		sampleRate:       sampleRate,
		powerThreshold:   cfg.powerThreshold,
		clarityThreshold: cfg.clarityThreshold,
		estimator:        est,
		logger:           cfg.logger,
		scratch:          make([]float32, MaxWindowSize),
	}, nil
}

// NewDetectorByName is NewDetector with the estimator selected by name
// (see ParseKind).
func NewDetectorByName(name string, windowSize, sampleRate int, opts ...Option) (*Detector, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return NewDetector(kind, windowSize, sampleRate, opts...)
}

// Ingest replaces the current view with a copy of samples, whose first
// sample sits at absolute index timeOfFirstSample. Views shorter than one
// window are rejected and leave the detector unchanged.
//
// If the view starts beyond the cursor the skipped samples are never
// analyzed; a view starting before the cursor does not rewind it.
func (d *Detector) Ingest(timeOfFirstSample int, samples []float32) error {
	if len(samples) < d.windowSize {
		return fmt.Errorf("%w: need %d samples, got %d", ErrInsufficientSamples, d.windowSize, len(samples))
	}

	d.view = core.EnsureLen(d.view, len(samples))
	copy(d.view, samples)
	d.viewStart = timeOfFirstSample

	if !d.ingested || timeOfFirstSample > d.cursor {
		d.cursor = timeOfFirstSample
	}
	d.ingested = true

	return nil
}

// Unprocessed returns the part of the current view no completed window has
// consumed yet.
func (d *Detector) Unprocessed() Region {
	if !d.ingested {
		return Region{}
	}
	n := len(d.view) - (d.cursor - d.viewStart)
	if n < 0 {
		n = 0
	}
	return Region{Start: d.cursor, Len: n}
}

// Drain analyzes every complete window of the unprocessed region that leaves
// at least one hop behind it, and returns the confident pitches in ascending
// time order. An empty result means nothing new is ready.
func (d *Detector) Drain() []Pitch {
	region := d.Unprocessed()
	numWindows := region.Windows(d.windowSize, d.hopSize)
	if numWindows == 0 {
		return nil
	}

	pitches := make([]Pitch, 0, numWindows)
	win := d.scratch[:d.windowSize]

	for i := range numWindows {
		start := region.Start + i*d.hopSize
		core.CopyPadded(win, d.view, start-d.viewStart)

		// Advance whether or not a pitch is found so no window repeats.
		d.cursor += d.hopSize

		est, ok := d.estimator.Estimate(win, d.sampleRate, d.powerThreshold, d.clarityThreshold)
		if !ok {
			d.hasLast = false
			if d.logger.Enabled(context.Background(), slog.LevelDebug) {
				d.logger.Debug("no confident pitch", "t", start, "window", d.windowSize, "kind", d.kind.String())
			}
			continue
		}

		pitches = append(pitches, Pitch{
			T:         start,
			Frequency: est.Frequency,
			Clarity:   est.Clarity,
			Onset:     !d.hasLast,
		})
		d.lastFrequency = est.Frequency
		d.hasLast = true
	}

	return pitches
}

// Pitches drains the detector, or reports NotEnoughSamples when no view
// holding a full window has been ingested yet.
func (d *Detector) Pitches() Result {
	if !d.ingested {
		return Result{NotEnoughSamples: &NotEnoughSamples{
			Required:  d.windowSize,
			Available: len(d.view),
		}}
	}
	return Result{Pitches: d.Drain()}
}

// LastConfidentPitch returns the frequency of the most recent window if it
// held a confident pitch.
func (d *Detector) LastConfidentPitch() (float32, bool) {
	return d.lastFrequency, d.hasLast
}

// Cursor returns the absolute index of the next unprocessed sample.
func (d *Detector) Cursor() int { return d.cursor }

// Kind returns the estimator kind the detector was created with.
func (d *Detector) Kind() Kind { return d.kind }

// WindowSize returns the analysis window length in samples.
func (d *Detector) WindowSize() int { return d.windowSize }

// HopSize returns the distance between consecutive windows.
func (d *Detector) HopSize() int { return d.hopSize }

// SampleRate returns the configured sample rate.
func (d *Detector) SampleRate() int { return d.sampleRate }

// Reset forgets the ingested view, the cursor and the onset state. The
// configuration and scratch memory are kept.
func (d *Detector) Reset() {
	d.view = d.view[:0]
	d.viewStart = 0
	d.cursor = 0
	d.ingested = false
	d.lastFrequency = 0
	d.hasLast = false
}

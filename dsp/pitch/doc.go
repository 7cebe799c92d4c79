// Package pitch turns a stream of time-stamped sample views into discrete
// pitch observations.
//
// A [Detector] slices the most recently ingested view into overlapping
// analysis windows (hop = window/4), runs a pluggable [Estimator] on each
// window exactly once over the lifetime of the stream, and classifies every
// confident estimate as an onset or a continuation of the previous window's
// pitch.
//
// # Usage
//
// Feed the detector from a [buffer.Ring] once per incoming chunk:
//
//	det, err := pitch.NewDetector(pitch.KindMcLeod, 2048, 48000)
//	...
//	if ring.Len() >= det.WindowSize() {
//		if err := det.Ingest(ring.Snapshot()); err != nil { ... }
//		for _, p := range det.Drain() { ... }
//	}
//
// Re-ingesting overlapping audio never reproduces an already emitted
// [Pitch]: the detector keeps a cursor at the first sample that no completed
// window has consumed, and the cursor never moves backwards.
//
// # Estimators
//
// Three built-in estimators are selectable by [Kind] or by name:
//   - Autocorrelation: FFT autocorrelation normalized by the energy of the overlapping segments.
//   - McLeod: normalized square difference function.
//   - Smoothed McLeod: McLeod with a Hann-smoothed NSDF, more robust on noisy input.
//
// All three refine the selected lag by parabolic interpolation.
//
// Custom estimators can be injected with [WithEstimator].
//
// Detectors are not safe for concurrent use.
//
// [buffer.Ring]: github.com/cwbudde/algo-pitch/dsp/buffer.Ring
package pitch

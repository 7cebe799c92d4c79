package pitch

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/cwbudde/algo-pitch/dsp/buffer"
	"github.com/cwbudde/algo-pitch/internal/testutil"
)

// markerEstimator treats the first sample of each window as its pitch: a
// positive value is a confident estimate of that frequency, anything else
// is silence. It records the first sample of every window it sees.
type markerEstimator struct {
	seen []float32
}

func (m *markerEstimator) Estimate(win []float32, _ int, _, _ float32) (Estimate, bool) {
	m.seen = append(m.seen, win[0])
	if win[0] <= 0 {
		return Estimate{}, false
	}
	return Estimate{Frequency: win[0], Clarity: 1}, true
}

func mustNewDetector(t *testing.T, kind Kind, windowSize, sampleRate int, opts ...Option) *Detector {
	t.Helper()
	d, err := NewDetector(kind, windowSize, sampleRate, opts...)
	if err != nil {
		t.Fatalf("NewDetector(%v, %d, %d) failed: %v", kind, windowSize, sampleRate, err)
	}
	return d
}

func TestNewDetectorValidation(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		windowSize int
		sampleRate int
		want       error
	}{
		{name: "window too large", kind: KindMcLeod, windowSize: MaxWindowSize + 1, sampleRate: 48000, want: ErrWindowTooLarge},
		{name: "window too small", kind: KindMcLeod, windowSize: 2, sampleRate: 48000, want: ErrInvalidWindowSize},
		{name: "zero sample rate", kind: KindMcLeod, windowSize: 1024, sampleRate: 0, want: ErrInvalidSampleRate},
		{name: "unknown kind", kind: Kind(42), windowSize: 1024, sampleRate: 48000, want: ErrUnknownEstimatorKind},
		{name: "negative kind", kind: Kind(-1), windowSize: 1024, sampleRate: 48000, want: ErrUnknownEstimatorKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDetector(tt.kind, tt.windowSize, tt.sampleRate)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if d != nil {
				t.Fatal("expected nil detector on error")
			}
		})
	}
}

func TestNewDetectorMaxWindow(t *testing.T) {
	d := mustNewDetector(t, KindMcLeod, MaxWindowSize, 48000)
	if d.WindowSize() != MaxWindowSize || d.HopSize() != MaxWindowSize/4 {
		t.Fatalf("WindowSize=%d HopSize=%d", d.WindowSize(), d.HopSize())
	}
}

func TestNewDetectorByName(t *testing.T) {
	d, err := NewDetectorByName("Smoothed McLeod", 1024, 44100)
	if err != nil {
		t.Fatalf("NewDetectorByName failed: %v", err)
	}
	if d.Kind() != KindSmoothedMcLeod || d.SampleRate() != 44100 {
		t.Fatalf("Kind=%v SampleRate=%d", d.Kind(), d.SampleRate())
	}

	_, err = NewDetectorByName("Not a real pitch detector type", 1024, 44100)
	if !errors.Is(err, ErrUnknownEstimatorKind) {
		t.Fatalf("err = %v, want ErrUnknownEstimatorKind", err)
	}
}

func TestIngestRejectsShortView(t *testing.T) {
	d := mustNewDetector(t, KindMcLeod, 1024, 44100)

	err := d.Ingest(0, make([]float32, 1023))
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Fatalf("err = %v, want ErrInsufficientSamples", err)
	}
	if r := d.Pitches(); r.Ready() {
		t.Fatal("rejected ingest must not make the detector ready")
	}

	// A rejected view must not disturb an accepted one either.
	if err := d.Ingest(256, make([]float32, 2048)); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	_ = d.Ingest(4096, make([]float32, 10))
	if got := d.Unprocessed(); got != (Region{Start: 256, Len: 2048}) {
		t.Fatalf("Unprocessed() = %+v after rejected ingest", got)
	}
}

func TestPitchesBeforeIngest(t *testing.T) {
	d := mustNewDetector(t, KindMcLeod, 2048, 48000)

	r := d.Pitches()
	if r.Ready() {
		t.Fatal("Ready() = true before any ingest")
	}
	if r.NotEnoughSamples == nil || *r.NotEnoughSamples != (NotEnoughSamples{Required: 2048, Available: 0}) {
		t.Fatalf("NotEnoughSamples = %+v, want {2048 0}", r.NotEnoughSamples)
	}
	if r.Pitches != nil {
		t.Fatalf("Pitches = %v, want nil", r.Pitches)
	}

	if err := d.Ingest(0, make([]float32, 2048)); err != nil {
		t.Fatal(err)
	}
	r = d.Pitches()
	if !r.Ready() {
		t.Fatal("Ready() = false after ingest")
	}
	if len(r.Pitches) != 0 {
		t.Fatalf("got %d pitches from a single window, want 0", len(r.Pitches))
	}
}

// 100 ms of 220 Hz at 48 kHz, window 2048, hop 512.
func TestDrainSineScenario(t *testing.T) {
	const (
		sampleRate = 48000
		window     = 2048
		freq       = 220.0
	)
	signal := testutil.DeterministicSine(freq, sampleRate, 1, sampleRate/10)

	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			d := mustNewDetector(t, kind, window, sampleRate)
			if err := d.Ingest(0, signal); err != nil {
				t.Fatalf("Ingest failed: %v", err)
			}

			pitches := d.Drain()
			if len(pitches) != 5 {
				t.Fatalf("got %d pitches, want 5: %+v", len(pitches), pitches)
			}

			for i, p := range pitches {
				if p.T != i*d.HopSize() {
					t.Errorf("pitches[%d].T = %d, want %d", i, p.T, i*d.HopSize())
				}
				testutil.RequireNear(t, "frequency", float64(p.Frequency), freq, 1)
				if p.Clarity < DefaultClarityThreshold || p.Clarity > 1 {
					t.Errorf("pitches[%d].Clarity = %v out of range", i, p.Clarity)
				}
				if p.Onset != (i == 0) {
					t.Errorf("pitches[%d].Onset = %v, want %v", i, p.Onset, i == 0)
				}
			}

			if d.Cursor() != 5*d.HopSize() {
				t.Fatalf("Cursor() = %d, want %d", d.Cursor(), 5*d.HopSize())
			}
			if again := d.Drain(); len(again) != 0 {
				t.Fatalf("second Drain() returned %d pitches, want 0", len(again))
			}
		})
	}
}

func TestDrainOnsetClassification(t *testing.T) {
	// Window 8, hop 2. Windows start at 0, 2, ..., 10; the one at 4 and the
	// one at 10 are silent.
	view := make([]float32, 20)
	for s := range view {
		if (s/2)%3 != 2 {
			view[s] = float32(s + 1)
		}
	}

	est := &markerEstimator{}
	d := mustNewDetector(t, KindMcLeod, 8, 100, WithEstimator(est))
	if err := d.Ingest(0, view); err != nil {
		t.Fatal(err)
	}

	got := d.Drain()
	want := []Pitch{
		{T: 0, Frequency: 1, Clarity: 1, Onset: true},
		{T: 2, Frequency: 3, Clarity: 1, Onset: false},
		{T: 6, Frequency: 7, Clarity: 1, Onset: true},
		{T: 8, Frequency: 9, Clarity: 1, Onset: false},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pitches[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if len(est.seen) != 6 {
		t.Fatalf("estimator ran %d times, want 6", len(est.seen))
	}
	if _, ok := d.LastConfidentPitch(); ok {
		t.Fatal("last window was silent but LastConfidentPitch reports a pitch")
	}
}

func TestDrainOnsetAfterSilenceWithRealEstimator(t *testing.T) {
	const sampleRate = 44100
	tone := testutil.DeterministicSine(440, sampleRate, 1, 8192)
	signal := testutil.Concat(tone, testutil.Silence(8192), tone)

	d := mustNewDetector(t, KindMcLeod, 1024, sampleRate)
	if err := d.Ingest(0, signal); err != nil {
		t.Fatal(err)
	}
	pitches := d.Drain()
	if len(pitches) == 0 {
		t.Fatal("no pitches detected")
	}

	onsets := 0
	for i, p := range pitches {
		contiguous := i > 0 && p.T-pitches[i-1].T == d.HopSize()
		if p.Onset == contiguous {
			t.Fatalf("pitches[%d] at t=%d: Onset = %v but contiguous = %v", i, p.T, p.Onset, contiguous)
		}
		if p.Onset {
			onsets++
		}
	}
	if onsets < 2 {
		t.Fatalf("got %d onsets, want at least 2 (tone, silence, tone)", onsets)
	}
	if !pitches[0].Onset {
		t.Fatal("first pitch must be an onset")
	}
}

func TestIngestCursorNeverRewinds(t *testing.T) {
	est := &markerEstimator{}
	d := mustNewDetector(t, KindMcLeod, 8, 100, WithEstimator(est))

	if err := d.Ingest(0, testutil.Ramp(1, 20)); err != nil {
		t.Fatal(err)
	}
	if n := len(d.Drain()); n != 6 {
		t.Fatalf("first drain = %d pitches, want 6", n)
	}
	if d.Cursor() != 12 {
		t.Fatalf("Cursor() = %d, want 12", d.Cursor())
	}

	// An older, shorter view must not rewind the cursor.
	if err := d.Ingest(4, testutil.Ramp(5, 16)); err != nil {
		t.Fatal(err)
	}
	if got := d.Unprocessed(); got != (Region{Start: 12, Len: 8}) {
		t.Fatalf("Unprocessed() = %+v, want {12 8}", got)
	}
	if got := d.Drain(); len(got) != 0 {
		t.Fatalf("reprocessed %+v", got)
	}

	// Overlapping view that extends further continues at the cursor.
	if err := d.Ingest(4, testutil.Ramp(5, 20)); err != nil {
		t.Fatal(err)
	}
	got := d.Drain()
	if len(got) != 2 || got[0].T != 12 || got[1].T != 14 {
		t.Fatalf("got %+v, want windows at 12 and 14", got)
	}
	if got[0].Frequency != 13 || got[0].Onset {
		t.Fatalf("got[0] = %+v, want continuation with marker 13", got[0])
	}
}

func TestIngestJumpsForwardOverGap(t *testing.T) {
	d := mustNewDetector(t, KindMcLeod, 8, 100, WithEstimator(&markerEstimator{}))

	_ = d.Ingest(0, testutil.Ramp(1, 20))
	_ = d.Drain()

	if err := d.Ingest(100, testutil.Ramp(101, 12)); err != nil {
		t.Fatal(err)
	}
	if d.Cursor() != 100 {
		t.Fatalf("Cursor() = %d, want 100", d.Cursor())
	}
	got := d.Drain()
	if len(got) != 2 || got[0].T != 100 || got[0].Frequency != 101 {
		t.Fatalf("got %+v", got)
	}
}

func TestStreamingFromRing(t *testing.T) {
	const (
		window    = 8
		chunkSize = 4
	)

	ring, err := buffer.NewRing(chunkSize, buffer.ChunksForWindow(window, chunkSize))
	if err != nil {
		t.Fatal(err)
	}

	est := &markerEstimator{}
	d := mustNewDetector(t, KindMcLeod, window, 100, WithEstimator(est))

	// Ramp values are absolute index + 1, so every window's marker tells
	// where it really started.
	var (
		all  []Pitch
		snap []float32
	)
	for _, chunk := range testutil.Chunks(testutil.Ramp(1, 400), chunkSize) {
		if err := ring.Push(chunk); err != nil {
			t.Fatal(err)
		}
		if ring.Len() < d.WindowSize() {
			continue
		}

		var start int
		start, snap = ring.SnapshotInto(snap)
		if err := d.Ingest(start, snap); err != nil {
			t.Fatal(err)
		}
		all = append(all, d.Drain()...)
	}

	if len(all) < 180 {
		t.Fatalf("got %d pitches, want at least 180", len(all))
	}
	for i, p := range all {
		if p.T != i*d.HopSize() {
			t.Fatalf("all[%d].T = %d, want %d (gap or repeat)", i, p.T, i*d.HopSize())
		}
		if p.Frequency != float32(p.T+1) {
			t.Fatalf("all[%d] analyzed samples from %v, want %d", i, p.Frequency-1, p.T)
		}
		if p.Onset != (i == 0) {
			t.Fatalf("all[%d].Onset = %v", i, p.Onset)
		}
	}
	if len(est.seen) != len(all) {
		t.Fatalf("estimator ran %d times for %d windows", len(est.seen), len(all))
	}
}

func TestReset(t *testing.T) {
	d := mustNewDetector(t, KindMcLeod, 8, 100, WithEstimator(&markerEstimator{}))
	_ = d.Ingest(40, testutil.Ramp(1, 20))
	_ = d.Drain()

	d.Reset()
	if d.Cursor() != 0 || d.Unprocessed() != (Region{}) {
		t.Fatalf("Cursor=%d Unprocessed=%+v after Reset", d.Cursor(), d.Unprocessed())
	}
	if d.Pitches().Ready() {
		t.Fatal("Ready() = true after Reset")
	}

	_ = d.Ingest(0, testutil.Ramp(1, 12))
	got := d.Drain()
	if len(got) != 2 || !got[0].Onset {
		t.Fatalf("got %+v, want fresh onset", got)
	}
}

func TestDrainAllocations(t *testing.T) {
	d := mustNewDetector(t, KindMcLeod, 64, 100, WithEstimator(constEstimator{}))
	view := testutil.Ramp(1, 512)

	allocs := testing.AllocsPerRun(20, func() {
		d.Reset()
		_ = d.Ingest(0, view)
		_ = d.Drain()
	})
	if allocs > 1 {
		t.Fatalf("allocs per cycle = %v, want <= 1", allocs)
	}
}

type constEstimator struct{}

func (constEstimator) Estimate([]float32, int, float32, float32) (Estimate, bool) {
	return Estimate{Frequency: 100, Clarity: 1}, true
}

func TestDebugLogging(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	d := mustNewDetector(t, KindAutocorrelation, 256, 8000, WithLogger(logger))
	_ = d.Ingest(0, testutil.Silence(512))
	if got := d.Drain(); len(got) != 0 {
		t.Fatalf("silence produced %+v", got)
	}

	if !strings.Contains(out.String(), "no confident pitch") {
		t.Fatalf("log output %q lacks debug record", out.String())
	}
}

func TestThresholdOptions(t *testing.T) {
	signal := testutil.DeterministicSine(440, 44100, 0.01, 4096)

	quiet := mustNewDetector(t, KindMcLeod, 1024, 44100)
	_ = quiet.Ingest(0, signal)
	if got := quiet.Drain(); len(got) != 0 {
		t.Fatalf("default power threshold accepted a -40 dBFS tone: %+v", got)
	}

	sensitive := mustNewDetector(t, KindMcLeod, 1024, 44100, WithPowerThreshold(0.001), WithPowerThreshold(-1))
	_ = sensitive.Ingest(0, signal)
	if got := sensitive.Drain(); len(got) == 0 {
		t.Fatal("lowered power threshold still rejects the tone")
	}

	strict := mustNewDetector(t, KindMcLeod, 1024, 44100, WithClarityThreshold(2))
	if strict.clarityThreshold != 1 {
		t.Fatalf("clarity threshold = %v, want clamp to 1", strict.clarityThreshold)
	}
}

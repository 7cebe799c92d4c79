package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/window"
)

// Estimate is a single confident pitch estimate for one window.
type Estimate struct {
	Frequency float32
	Clarity   float32
}

// Estimator estimates the pitch of one analysis window.
//
// Estimate reports false when the window holds no confident pitch: its power
// (sum of squares) is below powerThreshold, or the best periodicity candidate
// has a clarity below clarityThreshold. Implementations may keep internal
// scratch state and need not be safe for concurrent use.
type Estimator interface {
	Estimate(window []float32, sampleRate int, powerThreshold, clarityThreshold float32) (Estimate, bool)
}

const smoothingKernelLen = 9

// curveEstimator covers the built-in estimators. They differ only in the
// periodicity curve derived from the frame's autocorrelation; the selected
// peak is always refined by parabolic interpolation.
type curveEstimator struct {
	kind       Kind
	windowSize int
	maxLag     int

	taper  []float64
	kernel []float64

	acf      *autocorrelator
	frame    []float64
	curve    []float64
	smoothed []float64
	maxima   []int
}

// NewEstimator builds a built-in estimator for windows of exactly windowSize
// samples. FFT plans and scratch memory are allocated here, never per call.
// taper is applied to every frame before analysis; use
// window.TypeRectangular to analyze frames unmodified.
func NewEstimator(kind Kind, windowSize int, taper window.Type) (Estimator, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEstimatorKind, int(kind))
	}
	if err := validateWindowSize(windowSize); err != nil {
		return nil, err
	}

	acf, err := newAutocorrelator(windowSize)
	if err != nil {
		return nil, err
	}

	e := &curveEstimator{
		kind:       kind,
		windowSize: windowSize,
		maxLag:     windowSize / 2,
		acf:        acf,
		frame:      make([]float64, windowSize),
		curve:      make([]float64, windowSize/2),
		maxima:     make([]int, 0, 64),
	}

	if taper != window.TypeRectangular {
		e.taper = window.Generate(taper, windowSize)
	}
	if kind == KindSmoothedMcLeod {
		e.kernel = window.Generate(window.TypeHann, smoothingKernelLen, window.WithUnitSum())
		e.smoothed = make([]float64, windowSize/2)
	}

	return e, nil
}

func (e *curveEstimator) Estimate(win []float32, sampleRate int, powerThreshold, clarityThreshold float32) (Estimate, bool) {
	if len(win) != e.windowSize || sampleRate <= 0 {
		return Estimate{}, false
	}
	if core.Energy(win) < float64(powerThreshold) {
		return Estimate{}, false
	}

	core.Widen(e.frame, win)
	if e.taper != nil {
		if err := window.ApplyCoefficientsInPlace(e.frame, e.taper); err != nil {
			return Estimate{}, false
		}
	}

	r, err := e.acf.compute(e.frame)
	if err != nil || r[0] <= 0 {
		return Estimate{}, false
	}

	curve := e.buildCurve(r)

	e.maxima = keyMaxima(curve, e.maxima[:0])
	peak := choosePeak(curve, e.maxima)
	if peak < 0 {
		return Estimate{}, false
	}

	lag, clarity := parabolicPeak(curve, peak)
	if lag <= 0 || clarity < float64(clarityThreshold) {
		return Estimate{}, false
	}

	return Estimate{
		Frequency: float32(float64(sampleRate) / lag),
		Clarity:   float32(core.Clamp(clarity, 0, 1)),
	}, true
}

func (e *curveEstimator) buildCurve(r []float64) []float64 {
	curve := e.curve[:e.maxLag]
	x := e.frame
	n := len(x)

	if e.kind == KindAutocorrelation {
		// r(τ) / sqrt(head(τ)·tail(τ)), head and tail being the energies of
		// x[:N-τ] and x[τ:]. The value reaches 1 only where the overlapping
		// segments match, independent of lag and frame phase.
		head, tail := r[0], r[0]
		for lag := range curve {
			if lag > 0 {
				head -= x[n-lag] * x[n-lag]
				tail -= x[lag-1] * x[lag-1]
			}
			if head > 1e-12 && tail > 1e-12 {
				curve[lag] = r[lag] / math.Sqrt(head*tail)
			} else {
				curve[lag] = 0
			}
		}
		return curve
	}

	// Normalized square difference function:
	// n(τ) = 2·r(τ) / m(τ), m(τ) = Σ_{j<N-τ} x[j]² + x[j+τ]².
	m := 2 * r[0]
	for lag := range curve {
		if lag > 0 {
			m -= x[lag-1]*x[lag-1] + x[n-lag]*x[n-lag]
		}
		if m > 1e-12 {
			curve[lag] = 2 * r[lag] / m
		} else {
			curve[lag] = 0
		}
	}

	if e.kernel == nil {
		return curve
	}

	half := len(e.kernel) / 2
	smoothed := e.smoothed[:len(curve)]
	for i := range smoothed {
		var sum float64
		for k, w := range e.kernel {
			j := min(max(i+k-half, 0), len(curve)-1)
			sum += w * curve[j]
		}
		smoothed[i] = sum
	}

	return smoothed
}

func validateWindowSize(windowSize int) error {
	if windowSize > MaxWindowSize {
		return fmt.Errorf("%w: %d > %d", ErrWindowTooLarge, windowSize, MaxWindowSize)
	}
	if windowSize < minWindowSize {
		return fmt.Errorf("%w: %d < %d", ErrInvalidWindowSize, windowSize, minWindowSize)
	}
	return nil
}

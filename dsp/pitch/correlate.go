package pitch

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

// autocorrelator computes the linear autocorrelation of frames up to a fixed
// length via a zero-padded FFT. All buffers are allocated once.
type autocorrelator struct {
	maxLen  int
	fftSize int
	plan    *algofft.Plan[complex128]

	padded   []complex128
	spectrum []complex128
	re       []float64
	im       []float64
	power    []float64
	out      []float64
}

func newAutocorrelator(maxLen int) (*autocorrelator, error) {
	// Padding to twice the frame keeps the circular result free of wraparound.
	fftSize := core.NextPowerOf2(2 * maxLen)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("pitch: failed to create FFT plan: %w", err)
	}

	return &autocorrelator{
		maxLen:   maxLen,
		fftSize:  fftSize,
		plan:     plan,
		padded:   make([]complex128, fftSize),
		spectrum: make([]complex128, fftSize),
		re:       make([]float64, fftSize),
		im:       make([]float64, fftSize),
		power:    make([]float64, fftSize),
		out:      make([]float64, maxLen),
	}, nil
}

// compute returns r[τ] = Σ x[j]·x[j+τ] for τ in [0, len(x)). The returned
// slice is owned by the autocorrelator and overwritten by the next call.
func (a *autocorrelator) compute(x []float64) ([]float64, error) {
	if len(x) == 0 || len(x) > a.maxLen {
		return nil, fmt.Errorf("pitch: autocorrelation frame length %d outside (0, %d]", len(x), a.maxLen)
	}

	for i := range a.padded {
		a.padded[i] = 0
	}
	for i, v := range x {
		a.padded[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.spectrum, a.padded); err != nil {
		return nil, fmt.Errorf("pitch: forward FFT failed: %w", err)
	}

	for i, c := range a.spectrum {
		a.re[i] = real(c)
		a.im[i] = imag(c)
	}
	vecmath.Power(a.power, a.re, a.im)
	for i, p := range a.power {
		a.padded[i] = complex(p, 0)
	}

	if err := a.plan.Inverse(a.spectrum, a.padded); err != nil {
		return nil, fmt.Errorf("pitch: inverse FFT failed: %w", err)
	}

	// Pin the zero lag to the directly summed energy; this also absorbs the
	// inverse transform's scaling convention.
	out := a.out[:len(x)]
	scale := 0.0
	if zero := real(a.spectrum[0]); zero != 0 {
		scale = core.Energy(x) / zero
	}
	for i := range out {
		out[i] = real(a.spectrum[i]) * scale
	}

	return out, nil
}

// autocorrelateDirect is the O(N²) reference used to validate the FFT path.
func autocorrelateDirect(x []float64) []float64 {
	out := make([]float64, len(x))
	for lag := range out {
		var sum float64
		for j := 0; j+lag < len(x); j++ {
			sum += x[j] * x[j+lag]
		}
		out[lag] = sum
	}
	return out
}

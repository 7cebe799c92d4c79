// Package window provides taper windows applied to analysis frames before
// pitch estimation, and the smoothing kernels derived from them.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
}

// String returns the lower-case window name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a case-insensitive window name to its Type.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == key {
			return t, nil
		}
	}
	return TypeRectangular, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Set implements the flag.Value interface.
func (t *Type) Set(name string) error {
	parsed, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Type names the flag value type.
func (t *Type) Type() string {
	return "window"
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic  bool
	normalize bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithUnitSum scales the coefficients so they sum to 1, which turns the
// window into a smoothing kernel.
func WithUnitSum() Option {
	return func(c *config) {
		c.normalize = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if validateLength(length) != nil {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	if cfg.normalize {
		sum := 0.0
		for _, v := range out {
			sum += v
		}
		if sum != 0 {
			for i := range out {
				out[i] /= sum
			}
		}
	}

	return out
}

// ApplyCoefficientsInPlace multiplies samples with precomputed coefficients,
// typically the result of one Generate call reused for every frame.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func evalWindow(t Type, x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}

	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

package pitch

import (
	"log/slog"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/window"
)

const (
	// DefaultPowerThreshold is the minimum window power (sum of squares).
	DefaultPowerThreshold = 0.25
	// DefaultClarityThreshold is the minimum clarity of a confident pitch.
	DefaultClarityThreshold = 0.6
)

// Option configures a Detector.
type Option func(*config)

type config struct {
	powerThreshold   float32
	clarityThreshold float32
	taper            window.Type
	estimator        Estimator
	logger           *slog.Logger
}

func defaultConfig() config {
	return config{
		powerThreshold:   DefaultPowerThreshold,
		clarityThreshold: DefaultClarityThreshold,
		taper:            window.TypeRectangular,
		logger:           slog.New(slog.DiscardHandler),
	}
}

// WithPowerThreshold sets the minimum window power. Negative values are ignored.
func WithPowerThreshold(v float32) Option {
	return func(c *config) {
		if v >= 0 {
			c.powerThreshold = v
		}
	}
}

// WithClarityThreshold sets the minimum clarity, clamped to [0, 1].
func WithClarityThreshold(v float32) Option {
	return func(c *config) {
		c.clarityThreshold = core.Clamp(v, 0, 1)
	}
}

// WithTaper applies a taper window to each frame inside the built-in
// estimators. It has no effect together with WithEstimator.
func WithTaper(t window.Type) Option {
	return func(c *config) {
		c.taper = t
	}
}

// WithEstimator replaces the built-in estimator selected by the detector's Kind.
func WithEstimator(e Estimator) Option {
	return func(c *config) {
		if e != nil {
			c.estimator = e
		}
	}
}

// WithLogger routes the detector's debug records to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

package pitch

import "errors"

var (
	ErrInsufficientSamples  = errors.New("pitch: insufficient samples for one window")
	ErrWindowTooLarge       = errors.New("pitch: window size exceeds maximum")
	ErrInvalidWindowSize    = errors.New("pitch: invalid window size")
	ErrInvalidSampleRate    = errors.New("pitch: invalid sample rate")
	ErrUnknownEstimatorKind = errors.New("pitch: unknown estimator kind")
)

package psola

import "errors"

// Errors returned by the TD-PSOLA engine.
var (
	ErrInvalidShiftRatio = errors.New("psola: shift ratio must be positive and finite")
	ErrInvalidSampleRate = errors.New("psola: sample rate must be positive and finite")
	ErrEmptySignal       = errors.New("psola: input signal must not be empty")
	ErrUnsupportedLayout = errors.New("psola: unsupported channel layout")
	ErrNoPeriodicity     = errors.New("psola: no periodicity detected")
)

package batch

import "errors"

// Sentinel kinds for batch errors.
var (
	ErrJobFailed = errors.New("batch job failed")
	ErrJobPanic  = errors.New("batch job panicked")
	ErrNegativeN = errors.New("batch size must not be negative")
)

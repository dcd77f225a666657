package common

import "errors"

// Error kinds shared by all algorithms. Concrete errors wrap one of these
// sentinels so callers can classify failures with errors.Is.
var (
	// ErrInvalidConfiguration marks a caller-supplied parameter that violates
	// a precondition. Detected before any numeric work begins, never clamped.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch marks two inputs that must share a length or shape
	// but disagree. The operation is aborted before any input is consumed.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

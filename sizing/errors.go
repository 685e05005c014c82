package sizing

import "errors"

// Sentinel errors for sizing operations.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	// Input text errors
	ErrFormat = errors.New("sizing: malformed numeric input")

	// Bucket matcher invariant errors
	ErrDomain = errors.New("sizing: bucket invariant violated")

	// Option string errors. Compute recovers these locally.
	ErrOptionParse = errors.New("sizing: malformed option string")

	// Request parameter errors
	ErrInvalidParams = errors.New("sizing: invalid request parameters")
)

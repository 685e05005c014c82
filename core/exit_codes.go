package core

import (
	"errors"

	"sdxl_sizing/sizing"
)

// Exit codes for the sizing CLI.
const (
	// ExitCodeSuccess indicates the command completed (exit code 0)
	ExitCodeSuccess = 0

	// ExitCodeError indicates an unexpected failure (exit code 1)
	ExitCodeError = 1

	// ExitCodeUsage indicates bad input or configuration (exit code 2)
	ExitCodeUsage = 2
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// ExitCodeFor maps an error to the process exit code. Configuration errors
// and rejected sizing input exit with ExitCodeUsage.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if _, ok := IsConfigError(err); ok {
		return ExitCodeUsage
	}
	if errors.Is(err, sizing.ErrFormat) || errors.Is(err, sizing.ErrInvalidParams) {
		return ExitCodeUsage
	}
	return ExitCodeError
}

package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration problem with an actionable fix.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // What the operator should change
	Err     error  // Underlying cause, if any
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error codes for configuration errors
const (
	ErrCodeInvalidValue    = "INVALID_VALUE"
	ErrCodeOutOfRange      = "OUT_OF_RANGE"
	ErrCodePresetsFile     = "PRESETS_FILE"
	ErrCodePresetNotFound  = "PRESET_NOT_FOUND"
	ErrCodeInvalidLogLevel = "INVALID_LOG_LEVEL"
)

// ErrInvalidValue reports a variable whose value cannot be parsed.
func ErrInvalidValue(varName, value string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("Invalid %s '%s': %v", varName, value, cause),
		Action:  fmt.Sprintf("Fix %s in your .env file or override it with a flag", varName),
		Err:     cause,
	}
}

// ErrOutOfRange reports a numeric variable outside [min, max].
func ErrOutOfRange(varName string, value, min, max float64) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %g and %g, got %g", varName, min, max, value),
		Action:  fmt.Sprintf("Set %s to a value between %g and %g", varName, min, max),
	}
}

// ErrPresetsFile reports an unreadable or malformed presets file.
func ErrPresetsFile(path string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodePresetsFile,
		Message: fmt.Sprintf("Cannot load presets file %s: %v", path, cause),
		Action:  "Check SIZING_PRESETS_FILE points to a readable YAML file with a top-level 'presets' map",
		Err:     cause,
	}
}

// ErrPresetNotFound reports a preset name missing from the presets file.
func ErrPresetNotFound(name, path string) *ConfigError {
	action := "Run 'sizing presets' to list the available presets"
	if path == "" {
		action = "Set SIZING_PRESETS_FILE to a presets file first"
	}
	return &ConfigError{
		Code:    ErrCodePresetNotFound,
		Message: fmt.Sprintf("Preset not found: %s", name),
		Action:  action,
	}
}

// ErrInvalidLogLevel reports an unrecognized SIZING_LOG_LEVEL.
func ErrInvalidLogLevel(value string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidLogLevel,
		Message: fmt.Sprintf("Unknown log level '%s'", value),
		Action:  "Set SIZING_LOG_LEVEL to debug, info, warn, error or fatal",
	}
}

// IsConfigError reports whether err wraps a ConfigError and returns it.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode returns the ConfigError code wrapped by err, or "".
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}

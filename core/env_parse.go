package core

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvOrDefault returns the value of key, or defaultValue when it is unset
// or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseUint64Env parses key as a uint64, falling back to defaultValue.
func ParseUint64Env(key string, defaultValue uint64) uint64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

// LookupFloat64Env parses key as a float64. ok is false when the variable is
// unset or empty; err is set when it is present but not a number.
func LookupFloat64Env(key string) (value float64, ok bool, err error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, err
	}
	return value, true, nil
}

// ParseBoolEnv parses key as a boolean.
// Accepts "true", "1", "yes", "on", "enabled" and "false", "0", "no", "off",
// "disabled", case-insensitively. Anything else yields defaultValue.
func ParseBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on", "enabled":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		return defaultValue
	}
}

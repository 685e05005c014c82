package core

import (
	"fmt"
	"strings"

	"sdxl_sizing/sizing"
)

// Environment variable names.
const (
	EnvNativeRes       = "SIZING_NATIVE_RES"
	EnvAspect          = "SIZING_ASPECT"
	EnvOriginalRes     = "SIZING_ORIGINAL_RES"
	EnvCropExtra       = "SIZING_CROP_EXTRA"
	EnvDownscaleEffect = "SIZING_DOWNSCALE_EFFECT"
	EnvBucketing       = "SIZING_BUCKETING"
	EnvFitAspect       = "SIZING_FIT_ASPECT"
	EnvOptions         = "SIZING_OPTIONS"
	EnvVerbose         = "SIZING_VERBOSE"
	EnvPresetsFile     = "SIZING_PRESETS_FILE"
	EnvLogFile         = "SIZING_LOG_FILE"
	EnvLogLevel        = "SIZING_LOG_LEVEL"
	EnvSeed            = "SIZING_SEED"
	EnvDevMode         = "DEV_MODE"
)

// Defaults applied when a variable is unset.
const (
	DefaultNativeRes   = "1024"
	DefaultAspect      = "1:1"
	DefaultOriginalRes = "800x1200"
	DefaultBucketing   = "exhaustive"
	DefaultVerbose     = "disabled"
	DefaultLogFile     = "sizing.log"
)

// Config holds the sizing defaults read from the environment. Text inputs
// are kept verbatim so the sizing parser sees exactly what the operator
// wrote; CLI flags override them field by field.
type Config struct {
	// Request inputs
	NativeRes       string
	Aspect          string
	OriginalRes     string
	CropExtra       float64
	DownscaleEffect float64
	Bucketing       string
	FitAspect       bool
	Options         string

	// Presentation
	Verbose string

	// Presets
	PresetsFile string

	// Logging
	LogFile  string
	LogLevel string // Empty means the DevMode default
	DevMode  bool

	// Seed for randomaspect; 0 seeds from the clock
	Seed uint64
}

// LoadConfig loads configuration from environment variables, applying the
// defaults above. Malformed or out-of-range numbers are reported as
// *ConfigError; text inputs are checked by the validation suite.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		NativeRes:   GetEnvOrDefault(EnvNativeRes, DefaultNativeRes),
		Aspect:      GetEnvOrDefault(EnvAspect, DefaultAspect),
		OriginalRes: GetEnvOrDefault(EnvOriginalRes, DefaultOriginalRes),
		Bucketing:   GetEnvOrDefault(EnvBucketing, DefaultBucketing),
		FitAspect:   ParseBoolEnv(EnvFitAspect, false),
		Options:     GetEnvOrDefault(EnvOptions, ""),
		Verbose:     GetEnvOrDefault(EnvVerbose, DefaultVerbose),
		PresetsFile: GetEnvOrDefault(EnvPresetsFile, ""),
		LogFile:     GetEnvOrDefault(EnvLogFile, DefaultLogFile),
		LogLevel:    GetEnvOrDefault(EnvLogLevel, ""),
		DevMode:     ParseBoolEnv(EnvDevMode, false),
		Seed:        ParseUint64Env(EnvSeed, 0),
	}

	var err error
	if cfg.CropExtra, err = loadFraction(EnvCropExtra); err != nil {
		return nil, err
	}
	if cfg.DownscaleEffect, err = loadFraction(EnvDownscaleEffect); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFraction reads a 0.0-1.0 variable, defaulting to 0.
func loadFraction(key string) (float64, error) {
	v, ok, err := LookupFloat64Env(key)
	if !ok {
		return 0, nil
	}
	if err != nil {
		cfgErr := ErrInvalidValue(key, GetEnvOrDefault(key, ""), err)
		// read before flags are parsed, so only the environment can fix it
		cfgErr.Action = fmt.Sprintf("Fix %s in your .env file or environment", key)
		return 0, cfgErr
	}
	if err := CheckFraction(key, v); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckFraction returns an ErrOutOfRange error unless 0 <= v <= 1.
func CheckFraction(name string, v float64) error {
	if !(v >= 0 && v <= 1) {
		return ErrOutOfRange(name, v, 0, 1)
	}
	return nil
}

// BucketMode parses the configured bucketing mode.
func (c *Config) BucketMode() (sizing.BucketMode, error) {
	mode, err := sizing.ParseBucketMode(c.Bucketing)
	if err != nil {
		return 0, ErrInvalidValue(EnvBucketing, c.Bucketing, err)
	}
	return mode, nil
}

// Request builds a sizing.Request from the configuration.
func (c *Config) Request() (sizing.Request, error) {
	mode, err := c.BucketMode()
	if err != nil {
		return sizing.Request{}, err
	}
	return sizing.Request{
		NativeRes:         c.NativeRes,
		Aspect:            c.Aspect,
		OriginalRes:       c.OriginalRes,
		CropExtra:         c.CropExtra,
		DownscaleEffect:   c.DownscaleEffect,
		Bucketing:         mode,
		FitAspectToBucket: c.FitAspect,
		Options:           c.Options,
	}, nil
}

// String renders the request-relevant part of the configuration for logs.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "native=%s aspect=%s original=%s", c.NativeRes, c.Aspect, c.OriginalRes)
	fmt.Fprintf(&sb, " crop_extra=%g downscale_effect=%g bucketing=%s", c.CropExtra, c.DownscaleEffect, c.Bucketing)
	if c.FitAspect {
		sb.WriteString(" fit_aspect")
	}
	if c.Options != "" {
		fmt.Fprintf(&sb, " options=%q", c.Options)
	}
	return sb.String()
}

package validation

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"sdxl_sizing/core"
	"sdxl_sizing/logging"
	"sdxl_sizing/report"
	"sdxl_sizing/sizing"
)

// ValidationResult represents the result of a configuration validation check.
// Warning marks a non-fatal problem: Valid stays true.
type ValidationResult struct {
	Valid   bool
	Warning bool
	Message string
	Error   error
}

func passed(msg string) ValidationResult {
	return ValidationResult{Valid: true, Message: msg}
}

func failed(msg string, err error) ValidationResult {
	return ValidationResult{Valid: false, Message: msg, Error: err}
}

func warned(msg string, err error) ValidationResult {
	return ValidationResult{Valid: true, Warning: true, Message: msg, Error: err}
}

// ConfigValidator checks a loaded core.Config without computing anything.
// Each check is independent, so the suite can report every problem at once.
//
// Request inputs (native resolution, aspect, original resolution,
// bucketing and verbosity) only warn: command flags may still override
// them, and the compute command rejects whatever survives.
type ConfigValidator struct {
	cfg     *core.Config
	envPath string
}

// NewConfigValidator creates a validator for cfg. The .env path defaults to
// ".env" in the working directory.
func NewConfigValidator(cfg *core.Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg, envPath: ".env"}
}

// WithEnvPath sets a custom path for the .env file.
func (v *ConfigValidator) WithEnvPath(path string) *ConfigValidator {
	v.envPath = path
	return v
}

// CheckEnvFile reports whether a .env file is present. A missing file is a
// warning: the process environment and defaults still apply.
func (v *ConfigValidator) CheckEnvFile() ValidationResult {
	if err := CheckFileExists(v.envPath); err != nil {
		return warned("No .env file, using environment and defaults", err)
	}
	return passed("Environment file found")
}

// CheckNativeRes validates SIZING_NATIVE_RES.
func (v *ConfigValidator) CheckNativeRes() ValidationResult {
	p, err := sizing.ParseSize(v.cfg.NativeRes)
	if err == nil {
		var n int
		if n, err = sizing.NativeResolution(p); err == nil {
			if n != sizing.TrainingResolution {
				return warned(fmt.Sprintf("Native resolution %d: bucketing will be disabled", n), nil)
			}
			return passed(fmt.Sprintf("Native resolution %d", n))
		}
	}
	return warned("Native resolution invalid", core.ErrInvalidValue(core.EnvNativeRes, v.cfg.NativeRes, err))
}

// CheckAspect validates SIZING_ASPECT against SIZING_ORIGINAL_RES.
func (v *ConfigValidator) CheckAspect() ValidationResult {
	aspect, err := sizing.ParseSize(v.cfg.Aspect)
	if err != nil {
		return warned("Aspect ratio invalid", core.ErrInvalidValue(core.EnvAspect, v.cfg.Aspect, err))
	}
	// A bad original is reported by its own check; -1 then falls back to square.
	original, _ := sizing.ParseSize(v.cfg.OriginalRes)
	ratio, err := sizing.AspectFrom(aspect, original)
	if err != nil {
		return warned("Aspect ratio invalid", core.ErrInvalidValue(core.EnvAspect, v.cfg.Aspect, err))
	}
	return passed("Aspect ratio " + report.FormatFloat(ratio))
}

// CheckOriginalRes validates SIZING_ORIGINAL_RES.
func (v *ConfigValidator) CheckOriginalRes() ValidationResult {
	p, err := sizing.ParseSize(v.cfg.OriginalRes)
	if err != nil {
		return warned("Original resolution invalid", core.ErrInvalidValue(core.EnvOriginalRes, v.cfg.OriginalRes, err))
	}
	return passed(fmt.Sprintf("Original resolution %s (%s)", p, p.Kind))
}

// CheckRanges validates the crop extra and downscale effect fractions.
func (v *ConfigValidator) CheckRanges() ValidationResult {
	if err := core.CheckFraction(core.EnvCropExtra, v.cfg.CropExtra); err != nil {
		return failed("Crop extra out of range", err)
	}
	if err := core.CheckFraction(core.EnvDownscaleEffect, v.cfg.DownscaleEffect); err != nil {
		return failed("Downscale effect out of range", err)
	}
	return passed("Crop extra and downscale effect within 0-1")
}

// CheckBucketing validates SIZING_BUCKETING.
func (v *ConfigValidator) CheckBucketing() ValidationResult {
	mode, err := v.cfg.BucketMode()
	if err != nil {
		return warned("Bucketing mode invalid", err)
	}
	return passed("Bucketing " + mode.String())
}

// CheckVerbosity validates SIZING_VERBOSE.
func (v *ConfigValidator) CheckVerbosity() ValidationResult {
	verb, err := report.ParseVerbosity(v.cfg.Verbose)
	if err != nil {
		return warned("Verbosity invalid", core.ErrInvalidValue(core.EnvVerbose, v.cfg.Verbose, err))
	}
	return passed("Verbosity " + verb.String())
}

// CheckPresetsFile loads SIZING_PRESETS_FILE when one is configured.
func (v *ConfigValidator) CheckPresetsFile() ValidationResult {
	if v.cfg.PresetsFile == "" {
		return passed("No presets file configured")
	}
	if err := CheckFileExists(v.cfg.PresetsFile); err != nil {
		return failed("Presets file missing", core.ErrPresetsFile(v.cfg.PresetsFile, err))
	}
	pf, err := core.LoadPresets(v.cfg.PresetsFile)
	if err != nil {
		return failed("Presets file invalid", err)
	}
	return passed(fmt.Sprintf("%d presets loaded", len(pf.Presets)))
}

// CheckOptions parses SIZING_OPTIONS. A bad option string is a warning
// because computation ignores it.
func (v *ConfigValidator) CheckOptions() ValidationResult {
	if v.cfg.Options == "" {
		return passed("No options")
	}
	opts, err := sizing.ParseOptions(v.cfg.Options)
	if err != nil {
		return warned("Options will be ignored", err)
	}
	return passed("Options " + opts.String())
}

// CheckLogLevel validates SIZING_LOG_LEVEL when set.
func (v *ConfigValidator) CheckLogLevel() ValidationResult {
	if v.cfg.LogLevel == "" {
		return passed("Log level " + logging.DefaultLevel(v.cfg.DevMode).String())
	}
	// An unknown level parses to the sentinel below every real level.
	const unknown = zapcore.DebugLevel - 1
	level := logging.ParseLogLevelString(v.cfg.LogLevel, unknown)
	if level == unknown {
		return failed("Log level invalid", core.ErrInvalidLogLevel(v.cfg.LogLevel))
	}
	return passed("Log level " + level.String())
}

type namedCheck struct {
	name string
	fn   func() ValidationResult
}

func (v *ConfigValidator) checks() []namedCheck {
	return []namedCheck{
		{"Environment File", v.CheckEnvFile},
		{"Native Resolution", v.CheckNativeRes},
		{"Aspect Ratio", v.CheckAspect},
		{"Original Resolution", v.CheckOriginalRes},
		{"Crop and Downscale Ranges", v.CheckRanges},
		{"Bucketing Mode", v.CheckBucketing},
		{"Verbosity", v.CheckVerbosity},
		{"Presets File", v.CheckPresetsFile},
		{"Option String", v.CheckOptions},
		{"Log Level", v.CheckLogLevel},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sdxl_sizing/cmd"
	"sdxl_sizing/core"
	"sdxl_sizing/core/validation"
	"sdxl_sizing/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires configuration, logging and startup validation around the
// command tree and returns the process exit code.
func run(args []string) int {
	// A missing .env is reported by the validation suite.
	_ = godotenv.Load()

	config, err := core.LoadConfig()
	if err != nil {
		// Logger isn't initialized yet
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return core.ExitCodeFor(err)
	}

	level := logging.ParseLogLevelString(config.LogLevel, logging.DefaultLevel(config.DevMode))
	logger, err := logging.NewLoggerWithLevel(level, config.DevMode, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", syncErr)
		}
	}()

	if code := runStartupValidation(logger, config); code != core.ExitCodeSuccess {
		return code
	}

	logger.Debug("Configuration loaded",
		zap.Stringer("config", config),
		zap.String("presets_file", config.PresetsFile),
		zap.String("log_file", config.LogFile),
		zap.Bool("dev_mode", config.DevMode),
	)

	root := cmd.NewCLI(cmd.Env{Config: config, Logger: logger})
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		code := core.ExitCodeFor(err)
		if errors.Is(err, cmd.ErrUsage) {
			code = core.ExitCodeUsage
		}
		logger.Debug("Command failed", zap.Error(err), zap.String("exit", core.ExitCodeName(code)))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return code
	}
	return core.ExitCodeSuccess
}

// runStartupValidation checks the environment configuration before any
// command runs. Development mode prints every step to stderr; otherwise the
// suite stops at the first failure, which is always printed.
//
// Returns ExitCodeSuccess, or ExitCodeUsage when a check fails.
func runStartupValidation(logger *logging.Logger, config *core.Config) int {
	result := validation.NewValidationSuite(config).
		WithOutput(os.Stderr).
		WithShowProgress(config.DevMode).
		WithFailFast(!config.DevMode).
		Validate()

	for _, step := range result.Steps {
		if step.Status == validation.StepWarning {
			logger.Info("Validation warning",
				zap.String("step", step.Name),
				zap.String("message", step.Message),
				zap.Error(step.Error),
			)
		}
	}

	if result.Success {
		logger.Debug(result.Summary())
		return core.ExitCodeSuccess
	}

	logger.Error("Configuration validation failed",
		zap.Int("passed", result.PassedSteps),
		zap.Int("failed", result.FailedSteps),
		zap.Duration("duration", result.Duration),
	)
	for _, step := range result.Steps {
		if step.Status == validation.StepFailed {
			logger.Error("Validation step failed",
				zap.String("step", step.Name),
				zap.String("message", step.Message),
				zap.Error(step.Error),
			)
			fmt.Fprintf(os.Stderr, "%s: %v\n", step.Name, step.Error)
		}
	}
	return core.ExitCodeUsage
}

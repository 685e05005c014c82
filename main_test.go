package main

import (
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sdxl_sizing/core"
	"sdxl_sizing/logging"
)

func init() {
	color.NoColor = true
}

func testConfig() *core.Config {
	return &core.Config{
		NativeRes:   core.DefaultNativeRes,
		Aspect:      core.DefaultAspect,
		OriginalRes: core.DefaultOriginalRes,
		Bucketing:   core.DefaultBucketing,
		Verbose:     core.DefaultVerbose,
	}
}

func TestRunStartupValidation(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewLoggerFromCore(obs)

	if code := runStartupValidation(logger, testConfig()); code != core.ExitCodeSuccess {
		t.Errorf("valid config exit code = %d, want %d", code, core.ExitCodeSuccess)
	}

	cfg := testConfig()
	cfg.LogLevel = "chatty"
	if code := runStartupValidation(logger, cfg); code != core.ExitCodeUsage {
		t.Errorf("invalid config exit code = %d, want %d", code, core.ExitCodeUsage)
	}

	failures := logs.FilterMessage("Validation step failed").All()
	if len(failures) != 1 {
		t.Fatalf("expected one failed step logged, got %d", len(failures))
	}
	if step := failures[0].ContextMap()["step"]; step != "Log Level" {
		t.Errorf("failed step = %v, want Log Level", step)
	}
}

func TestRun(t *testing.T) {
	t.Setenv(core.EnvLogFile, filepath.Join(t.TempDir(), "sizing.log"))
	t.Setenv(core.EnvLogLevel, "error")

	if code := run([]string{"fraction", "1.5"}); code != core.ExitCodeSuccess {
		t.Errorf("run(fraction 1.5) = %d, want %d", code, core.ExitCodeSuccess)
	}
	for _, args := range [][]string{
		{"--aspect", "3:0"},
		{"--crop-extra", "lots"},
		{"fraction"},
		{"resize"},
	} {
		if code := run(args); code != core.ExitCodeUsage {
			t.Errorf("run(%q) = %d, want %d", args, code, core.ExitCodeUsage)
		}
	}
}

func TestRun_BadEnvironment(t *testing.T) {
	t.Setenv(core.EnvLogFile, filepath.Join(t.TempDir(), "sizing.log"))

	t.Setenv(core.EnvCropExtra, "lots")
	if code := run(nil); code != core.ExitCodeUsage {
		t.Errorf("bad %s exit code = %d, want %d", core.EnvCropExtra, code, core.ExitCodeUsage)
	}

	t.Setenv(core.EnvCropExtra, "")
	t.Setenv(core.EnvBucketing, "sideways")
	if code := run(nil); code != core.ExitCodeUsage {
		t.Errorf("bad %s exit code = %d, want %d", core.EnvBucketing, code, core.ExitCodeUsage)
	}
}

func TestRun_FlagsOverrideBadEnvironment(t *testing.T) {
	t.Setenv(core.EnvLogFile, filepath.Join(t.TempDir(), "sizing.log"))
	t.Setenv(core.EnvAspect, "wide")
	t.Setenv(core.EnvBucketing, "sideways")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"flags replace both values", []string{"--aspect", "1:1", "--bucketing", "reduced"}, core.ExitCodeSuccess},
		{"buckets ignores request inputs", []string{"buckets"}, core.ExitCodeSuccess},
		{"fraction ignores request inputs", []string{"fraction", "0.75"}, core.ExitCodeSuccess},
		{"bad bucketing still used", []string{"--aspect", "1:1"}, core.ExitCodeUsage},
		{"bad aspect still used", []string{"--bucketing", "off"}, core.ExitCodeUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := run(tt.args); code != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.args, code, tt.want)
			}
		})
	}
}

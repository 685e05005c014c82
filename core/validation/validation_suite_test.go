package validation

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestValidationSuite_BuilderPattern(t *testing.T) {
	var buf bytes.Buffer

	suite := NewValidationSuite(validConfig()).
		WithOutput(&buf).
		WithShowProgress(false).
		WithFailFast(true).
		WithEnvPath("/custom/path/.env")

	if suite.output != &buf {
		t.Error("WithOutput did not set output correctly")
	}
	if suite.showProgress {
		t.Error("WithShowProgress did not set value correctly")
	}
	if !suite.failFast {
		t.Error("WithFailFast did not set value correctly")
	}
	if suite.configValidator.envPath != "/custom/path/.env" {
		t.Error("WithEnvPath did not set the validator path")
	}
}

func TestStepStatus_String(t *testing.T) {
	tests := []struct {
		status   StepStatus
		expected string
	}{
		{StepPending, "pending"},
		{StepRunning, "running"},
		{StepPassed, "passed"},
		{StepFailed, "failed"},
		{StepWarning, "warning"},
		{StepSkipped, "skipped"},
		{StepStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("StepStatus(%d).String() = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestValidationSuite_Validate_Valid(t *testing.T) {
	var buf bytes.Buffer
	result := NewValidationSuite(validConfig()).
		WithOutput(&buf).
		WithShowProgress(false).
		WithEnvPath(filepath.Join(t.TempDir(), ".env")).
		Validate()

	if !result.Success {
		t.Errorf("Validate() failed for a valid config: %v", result.GetErrors())
	}
	// The missing .env is the only warning.
	if result.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", result.Warnings)
	}
	if result.TotalSteps != 10 {
		t.Errorf("TotalSteps = %d, want 10", result.TotalSteps)
	}
	if buf.Len() != 0 {
		t.Errorf("no output expected without progress, got %q", buf.String())
	}
}

func TestValidationSuite_Validate_ReportsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.CropExtra = 2
	cfg.LogLevel = "chatty"

	result := NewValidationSuite(cfg).
		WithShowProgress(false).
		WithEnvPath(filepath.Join(t.TempDir(), ".env")).
		Validate()

	if result.Success {
		t.Fatal("Validate() should fail")
	}
	if result.FailedSteps != 2 {
		t.Errorf("FailedSteps = %d, want 2", result.FailedSteps)
	}
	if len(result.GetErrors()) != 2 {
		t.Errorf("GetErrors() returned %d errors, want 2", len(result.GetErrors()))
	}
}

func TestValidationSuite_FailFast(t *testing.T) {
	cfg := validConfig()
	cfg.CropExtra = 2

	result := NewValidationSuite(cfg).
		WithShowProgress(false).
		WithFailFast(true).
		WithEnvPath(filepath.Join(t.TempDir(), ".env")).
		Validate()

	if result.FailedSteps != 1 {
		t.Errorf("FailedSteps = %d, want 1", result.FailedSteps)
	}
	skipped := 0
	for _, step := range result.Steps {
		if step.Status == StepSkipped {
			skipped++
		}
	}
	// The first five steps ran, up to and including the range check.
	if skipped != 5 {
		t.Errorf("skipped = %d, want 5", skipped)
	}
}

func TestValidationSuite_ProgressOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Options = "-blur"

	var buf bytes.Buffer
	NewValidationSuite(cfg).
		WithOutput(&buf).
		WithEnvPath(filepath.Join(t.TempDir(), ".env")).
		Validate()

	output := buf.String()
	for _, want := range []string{
		"Sizing Configuration Check",
		"Native Resolution",
		"Options will be ignored",
		"unknown option",
		"Validation Passed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("progress output missing %q:\n%s", want, output)
		}
	}
}

func TestValidationSuite_buildResult(t *testing.T) {
	suite := NewValidationSuite(validConfig())
	startTime := time.Now().Add(-100 * time.Millisecond)

	steps := []ValidationStep{
		{Name: "Step1", Status: StepPassed},
		{Name: "Step2", Status: StepFailed},
		{Name: "Step3", Status: StepWarning},
		{Name: "Step4", Status: StepSkipped},
	}

	result := suite.buildResult(steps, startTime)

	if result.TotalSteps != 4 || result.PassedSteps != 1 || result.FailedSteps != 1 || result.Warnings != 1 {
		t.Errorf("buildResult() counts = %+v", result)
	}
	if result.Success {
		t.Error("Success should be false with a failed step")
	}
	if result.Duration < 100*time.Millisecond {
		t.Errorf("Duration = %v, want at least 100ms", result.Duration)
	}
}

func TestSuiteResult_GetFirstError(t *testing.T) {
	first := errors.New("first")
	result := SuiteResult{
		Steps: []ValidationStep{
			{Name: "Step1", Status: StepWarning, Error: errors.New("warning only")},
			{Name: "Step2", Status: StepFailed, Error: first},
			{Name: "Step3", Status: StepFailed, Error: errors.New("second")},
		},
	}
	if err := result.GetFirstError(); err != first {
		t.Errorf("GetFirstError() = %v, want %v", err, first)
	}
	if (SuiteResult{}).GetFirstError() != nil {
		t.Error("GetFirstError() should be nil without steps")
	}
}

func TestSuiteResult_Summary(t *testing.T) {
	result := SuiteResult{
		Success:     false,
		TotalSteps:  10,
		PassedSteps: 7,
		FailedSteps: 2,
		Warnings:    1,
		Duration:    1500 * time.Millisecond,
	}

	summary := result.Summary()
	for _, want := range []string{"Failed", "7/10", "2 failed", "1 warning"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() = %q, expected to contain %q", summary, want)
		}
	}
}

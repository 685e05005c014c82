package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewMultiCore_CreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sizing.log")

	core, err := NewMultiCore(zapcore.InfoLevel, logPath, true)
	if err != nil {
		t.Fatalf("NewMultiCore() returned error: %v", err)
	}
	if core == nil {
		t.Fatal("expected non-nil core")
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file at %s: %v", logPath, err)
	}
}

func TestNewMultiCore_InvalidPath(t *testing.T) {
	_, err := NewMultiCore(zapcore.InfoLevel, filepath.Join(t.TempDir(), "nope", "sizing.log"), true)
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
}

func TestNewMultiCoreWithWriters(t *testing.T) {
	tests := []struct {
		name        string
		isDev       bool
		consoleJSON bool
	}{
		{"development console is text", true, false},
		{"production console is JSON", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var console, file bytes.Buffer
			core := NewMultiCoreWithWriters(zapcore.InfoLevel, zapcore.AddSync(&console), zapcore.AddSync(&file), tt.isDev)

			logger := zap.New(core)
			logger.Info("tee", zap.String("bucket", "832x1216"))

			var entry map[string]interface{}
			if err := json.Unmarshal(bytes.TrimSpace(file.Bytes()), &entry); err != nil {
				t.Fatalf("file output is not JSON: %v\n%s", err, file.String())
			}
			if entry["bucket"] != "832x1216" {
				t.Errorf("bucket = %v, want 832x1216", entry["bucket"])
			}

			isJSON := json.Valid(bytes.TrimSpace(console.Bytes()))
			if isJSON != tt.consoleJSON {
				t.Errorf("console JSON = %v, want %v: %q", isJSON, tt.consoleJSON, console.String())
			}
			if !strings.Contains(console.String(), "tee") {
				t.Errorf("console output missing message: %q", console.String())
			}
		})
	}
}

func TestNewMultiCoreWithWriters_Level(t *testing.T) {
	var console, file bytes.Buffer
	core := NewMultiCoreWithWriters(zapcore.WarnLevel, zapcore.AddSync(&console), zapcore.AddSync(&file), false)

	logger := zap.New(core)
	logger.Info("below level")

	if console.Len() != 0 || file.Len() != 0 {
		t.Errorf("entries below level were written: console=%q file=%q", console.String(), file.String())
	}
}

func TestConsoleWriter_SyncOverPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() returned error: %v", err)
	}
	defer r.Close()
	defer w.Close()

	var file bytes.Buffer
	core := NewMultiCoreWithWriters(zapcore.InfoLevel, newConsoleWriter(w), zapcore.AddSync(&file), true)
	logger := NewLoggerFromCore(core)

	logger.Warn("piped", zap.String("aspect", "2:3"))
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync() over a pipe returned error: %v", err)
	}
	w.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	if !strings.Contains(string(got), "piped") {
		t.Errorf("pipe output missing entry: %q", got)
	}
}

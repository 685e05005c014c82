package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore tees log output to stderr and a rotated JSON file at filePath.
//
// The file is opened once up front so an unwritable path fails here rather
// than on the first log call. Console output is colored text when isDev is
// set. Otherwise it is JSON and limited to warnings, so a normal run prints
// only command output. stderr keeps stdout free for that output.
func NewMultiCore(level zapcore.Level, filePath string, isDev bool) (zapcore.Core, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", filePath, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close log file %s: %w", filePath, err)
	}

	consoleLevel := level
	if !isDev && consoleLevel < zapcore.WarnLevel {
		consoleLevel = zapcore.WarnLevel
	}
	return newTee(level, consoleLevel, newConsoleWriter(os.Stderr), NewFileWriter(filePath), isDev), nil
}

// consoleWriterSync adapts a console stream to zapcore.WriteSyncer.
// Sync is a no-op: fsync on a pipe or terminal fails with EINVAL or ENOTTY.
type consoleWriterSync struct {
	w io.Writer
}

func (c consoleWriterSync) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c consoleWriterSync) Sync() error {
	return nil
}

func newConsoleWriter(w io.Writer) zapcore.WriteSyncer {
	return zapcore.Lock(consoleWriterSync{w: w})
}

// NewMultiCoreWithWriters tees log output to the given writers. The file
// side always uses JSON.
func NewMultiCoreWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	return newTee(level, level, consoleWriter, fileWriter, isDev)
}

func newTee(fileLevel, consoleLevel zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), fileWriter, fileLevel)

	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, consoleWriter, consoleLevel)

	return zapcore.NewTee(consoleCore, fileCore)
}

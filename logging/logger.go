// Package logging provides the structured logger used by the sizing CLI.
//
// The package follows the same atoms / molecules / organism split as the
// rest of the module:
//
//   - Atoms: encoder configs, ParseLogLevelString, SizingRecord
//   - Molecules: NewFileWriter (lumberjack rotation), NewMultiCore (console + file tee)
//   - Organism: Logger
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with the console + rotated file setup.
//
// Example:
//
//	logger, err := logging.NewLogger(true, "sizing.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("computed", logging.SizingFields(res))
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger

	isDevelopment bool
	logFilePath   string
}

// DefaultLevel returns the level used when none is configured: debug in
// development, info otherwise.
func DefaultLevel(isDevelopment bool) zapcore.Level {
	if isDevelopment {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// NewLogger creates a Logger at the default level for the environment.
//
// Development mode writes colored console lines; production writes JSON to
// both outputs. The file is rotated with DefaultFileWriterConfig.
func NewLogger(isDevelopment bool, logFilePath string) (*Logger, error) {
	return NewLoggerWithLevel(DefaultLevel(isDevelopment), isDevelopment, logFilePath)
}

// NewLoggerWithLevel creates a Logger with an explicit minimum level.
func NewLoggerWithLevel(level zapcore.Level, isDevelopment bool, logFilePath string) (*Logger, error) {
	core, err := NewMultiCore(level, logFilePath, isDevelopment)
	if err != nil {
		return nil, fmt.Errorf("failed to create log core: %w", err)
	}
	return newLogger(core, isDevelopment, logFilePath), nil
}

// NewLoggerFromCore wraps an existing core, e.g. a zaptest observer.
func NewLoggerFromCore(core zapcore.Core) *Logger {
	return newLogger(core, false, "")
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return newLogger(zapcore.NewNopCore(), false, "")
}

func newLogger(core zapcore.Core, isDevelopment bool, logFilePath string) *Logger {
	z := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // skip this wrapper
	)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: isDevelopment,
		logFilePath:   logFilePath,
	}
}

// Sync flushes buffered entries. Call it before exiting.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

// Info logs a message at InfoLevel.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Warn logs a message at WarnLevel.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// Debugw logs at DebugLevel with loosely-typed key-value pairs.
func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Infow logs at InfoLevel with loosely-typed key-value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warnw logs at WarnLevel with loosely-typed key-value pairs.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Errorf logs a formatted message at ErrorLevel.
func (l *Logger) Errorf(template string, args ...interface{}) {
	l.sugar.Errorf(template, args...)
}

// With creates a child logger that adds fields to every entry.
//
// Example:
//
//	runLogger := logger.With(logging.RunIDField(runID))
//	runLogger.Info("request", logging.RequestFields(req)...)
func (l *Logger) With(fields ...zap.Field) *Logger {
	z := l.zap.With(fields...)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: l.isDevelopment,
		logFilePath:   l.logFilePath,
	}
}

// Named adds a sub-logger name, e.g. "compute" or "validation".
func (l *Logger) Named(name string) *Logger {
	z := l.zap.Named(name)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: l.isDevelopment,
		logFilePath:   l.logFilePath,
	}
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// IsDevelopment reports whether the logger was built for development mode.
func (l *Logger) IsDevelopment() bool {
	return l.isDevelopment
}

// LogFilePath returns the log file path, empty for writer-backed loggers.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}

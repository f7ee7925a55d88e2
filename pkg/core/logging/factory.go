// ============================================================================
// rdtrace - Recursive Descent Expression Tracer
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating foundation loggers from the
//              application configuration
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	rdtlog "github.com/msto63/rdtrace/foundation/core/log"
	"github.com/msto63/rdtrace/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service or component name
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format: "text", "json" or "logfmt" (default: text)
	Format string

	// Output writer (default: stderr, stdout carries the trace)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "warn",
		Format:      "text",
	}
}

// NewLogger creates a new foundation logger. Unknown levels fall back to
// info and unknown formats to text.
func NewLogger(cfg LoggerConfig) *rdtlog.Logger {
	level, err := rdtlog.ParseLevel(cfg.Level)
	if err != nil {
		level = rdtlog.LevelInfo
	}

	format, err := rdtlog.ParseFormat(cfg.Format)
	if err != nil {
		format = rdtlog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return rdtlog.NewWithConfig(rdtlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// FromConfig creates the logger described by the [general] section and
// installs it as the foundation default logger
func FromConfig(cfg *config.Config, component string) *rdtlog.Logger {
	logger := NewLogger(LoggerConfig{
		ServiceName: component,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	})
	rdtlog.SetDefault(logger)
	return logger
}

// Compatibility layer for code logging with key-value pairs

// Logger wraps the foundation logger with key-value logging methods
type Logger struct {
	*rdtlog.Logger
	name string
}

// New creates a key-value logger for a component using the default config
func New(name string) *Logger {
	return &Logger{
		Logger: NewLogger(DefaultLoggerConfig(name)),
		name:   name,
	}
}

// Wrap adapts an existing foundation logger
func Wrap(logger *rdtlog.Logger, name string) *Logger {
	if logger == nil {
		logger = rdtlog.GetDefault()
	}
	return &Logger{Logger: logger.WithName(name), name: name}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// Foundation returns the wrapped foundation logger
func (l *Logger) Foundation() *rdtlog.Logger {
	return l.Logger
}

// With returns a logger carrying the given key-value pairs on every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.WithFields(KV(keysAndValues...)), name: l.name}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, KV(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, KV(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, KV(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, KV(keysAndValues...))
}

// KV converts alternating key-value pairs to fields. Non-string keys and a
// trailing key without value are skipped.
func KV(keysAndValues ...interface{}) rdtlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(rdtlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

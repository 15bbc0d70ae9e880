// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating Foundation loggers
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	mdwlog "github.com/msto63/hl7view/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name written as the logger name
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format, "json" or "text"
	Format string

	// Output defaults to stderr so stdout stays free for reports
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer

	// Caller adds file:line to every entry
	Caller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "text",
	}
}

// NewLogger creates a new Foundation logger. Unknown level or format strings
// fall back to info and text.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mdwlog.LevelInfo
	}

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.Caller,
	})
}

// Logger wraps the Foundation logger with key/value logging methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a logger with the default configuration
func New(name string) *Logger {
	return Wrap(NewLogger(DefaultLoggerConfig(name)), name)
}

// NewWithConfig creates a key/value logger from a configuration
func NewWithConfig(cfg LoggerConfig) *Logger {
	return Wrap(NewLogger(cfg), cfg.Name)
}

// NewNop returns a logger that writes nothing
func NewNop() *Logger {
	return Wrap(mdwlog.NewNop(), "nop")
}

// Wrap adapts an existing Foundation logger
func Wrap(logger *mdwlog.Logger, name string) *Logger {
	return &Logger{Logger: logger, name: name}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Named returns a child logger called "<parent>.<name>"
func (l *Logger) Named(name string) *Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return &Logger{Logger: l.Logger.WithName(full), name: full}
}

// WithSession returns a logger that tags every entry with a session id
func (l *Logger) WithSession(session string) *Logger {
	return &Logger{Logger: l.Logger.WithSession(session), name: l.name}
}

// With returns a logger with persistent key/value fields
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.WithFields(toFields(keysAndValues...)), name: l.name}
}

// Trace logs a trace message with key/value pairs
func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.Logger.Trace(msg, toFields(keysAndValues...))
}

// Debug logs a debug message with key/value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key/value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key/value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key/value pairs. An error value under
// the key "error" is attached as the entry's error.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	fields := toFields(keysAndValues...)
	if err, ok := fields["error"].(error); ok {
		delete(fields, "error")
		l.Logger.ErrorWithErr(msg, err, fields)
		return
	}
	l.Logger.Error(msg, fields)
}

// toFields converts key-value pairs to mdwlog.Fields; a dangling key is
// recorded with a nil value
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}

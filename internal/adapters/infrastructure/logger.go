package infrastructure

import (
	"log/slog"

	"clima.app/internal/ports"
)

// SlogLoggerAdapter implements the Logger port using slog
type SlogLoggerAdapter struct {
	logger *slog.Logger
}

// NewSlogLoggerAdapter creates an adapter over l. A nil logger means slog.Default().
func NewSlogLoggerAdapter(l *slog.Logger) *SlogLoggerAdapter {
	return &SlogLoggerAdapter{logger: l}
}

func (l *SlogLoggerAdapter) target() *slog.Logger {
	if l.logger == nil {
		return slog.Default()
	}
	return l.logger
}

// Debug logs a debug message
func (l *SlogLoggerAdapter) Debug(msg string, fields ...ports.Field) {
	l.target().Debug(msg, toArgs(fields)...)
}

// Info logs an info message
func (l *SlogLoggerAdapter) Info(msg string, fields ...ports.Field) {
	l.target().Info(msg, toArgs(fields)...)
}

// Warn logs a warning message
func (l *SlogLoggerAdapter) Warn(msg string, fields ...ports.Field) {
	l.target().Warn(msg, toArgs(fields)...)
}

// Error logs an error message
func (l *SlogLoggerAdapter) Error(msg string, fields ...ports.Field) {
	l.target().Error(msg, toArgs(fields)...)
}

func toArgs(fields []ports.Field) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for _, field := range fields {
		args = append(args, field.Key, field.Value)
	}
	return args
}

// TeeLogger writes every entry to all of its loggers in order
type TeeLogger struct {
	loggers []ports.Logger
}

// NewTeeLogger creates a logger fanning out to the given loggers. Nil entries are skipped.
func NewTeeLogger(loggers ...ports.Logger) *TeeLogger {
	tee := &TeeLogger{}
	for _, l := range loggers {
		if l != nil {
			tee.loggers = append(tee.loggers, l)
		}
	}
	return tee
}

func (t *TeeLogger) Debug(msg string, fields ...ports.Field) {
	for _, l := range t.loggers {
		l.Debug(msg, fields...)
	}
}

func (t *TeeLogger) Info(msg string, fields ...ports.Field) {
	for _, l := range t.loggers {
		l.Info(msg, fields...)
	}
}

func (t *TeeLogger) Warn(msg string, fields ...ports.Field) {
	for _, l := range t.loggers {
		l.Warn(msg, fields...)
	}
}

func (t *TeeLogger) Error(msg string, fields ...ports.Field) {
	for _, l := range t.loggers {
		l.Error(msg, fields...)
	}
}

// Package logger provides structured logging helpers on top of log/slog.
package logger

import "log/slog"

// Info logs an info message using the default logger.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Error logs an error message using the default logger.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Debug logs a debug message using the default logger.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// With returns a child of the default logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

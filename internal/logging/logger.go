// Package logging wraps logr with the small surface the engine needs:
// named loggers, Info/Error, and verbosity-gated Debug.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Logger is a thin convenience wrapper around logr.Logger.
type Logger struct {
	log logr.Logger
}

// New wraps the provided base logger. The zero logr.Logger yields a silent
// logger; callers who want output pass their own sink or Default().
func New(base logr.Logger) Logger {
	return Logger{log: base}
}

// Default returns the module's default structured logger: zap development
// config behind a logr facade. Falls back to a no-op logger if zap cannot
// initialize.
func Default() logr.Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		zl = zap.NewNop()
	}
	return zapr.NewLogger(zl)
}

// WithName scopes the logger under name.
func (l Logger) WithName(name string) Logger {
	return Logger{log: l.log.WithName(name)}
}

// WithValues attaches key-value pairs to every subsequent record.
func (l Logger) WithValues(keysAndValues ...any) Logger {
	return Logger{log: l.log.WithValues(keysAndValues...)}
}

// Info logs an informational message.
func (l Logger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

// Debug logs at V(1) when that verbosity is enabled.
func (l Logger) Debug(msg string, keysAndValues ...any) {
	if l.log.V(1).Enabled() {
		l.log.V(1).Info(msg, keysAndValues...)
	}
}

// Error logs an error message.
func (l Logger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(err, msg, keysAndValues...)
}

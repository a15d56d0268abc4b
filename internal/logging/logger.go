// Package logging decouples the simulator from a specific logging framework.
// Components receive a Logger through their constructors; logrus backs it in
// production and MockLogger captures entries in tests.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger used throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry.
	WithError(err error) Logger

	// WithField returns a logger with a single extra field.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger with extra fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the program.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// GetLogger returns the process-wide default logger, creating an info-level
// text logger on first use. Prefer injecting a Logger; this exists for
// packages that are used before the container is built.
func GetLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogrusAdapter("info", "text")
	}
	return defaultLogger
}

// SetDefaultLogger replaces the logger returned by GetLogger.
func SetDefaultLogger(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// SetAllLogLevels sets the level of the logrus standard logger and of the
// default logger when it is logrus-backed.
func SetAllLogLevels(level logrus.Level) {
	logrus.SetLevel(level)

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogrusAdapter(level.String(), "text")
		return
	}
	if adapter, ok := defaultLogger.(*LogrusAdapter); ok {
		adapter.logger.SetLevel(level)
	}
}

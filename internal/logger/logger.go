// Package logger provides structured logging for worksearch.
// Verbose mode (the --verbose flag) lowers the level to debug so users
// can follow the search pipeline; otherwise only warnings and errors
// are printed to stderr.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	verbose bool
	backend = log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.WarnLevel,
		ReportTimestamp: false,
	})
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		backend.SetLevel(log.DebugLevel)
	} else {
		backend.SetLevel(log.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
// Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	backend.SetOutput(w)
}

// Debug prints a debug message in verbose mode.
func Debug(format string, args ...any) {
	backend.Debugf(format, args...)
}

// Info prints an informational message in verbose mode.
func Info(format string, args ...any) {
	backend.Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	backend.Warnf(format, args...)
}

// Error prints an error message. Unexpected internal failures are logged
// here with full detail; callers only ever see a generic message.
func Error(format string, args ...any) {
	backend.Errorf(format, args...)
}

// Section prints a section header in verbose mode.
func Section(name string) {
	backend.Debugf("=== %s ===", name)
}

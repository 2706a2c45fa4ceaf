// Package monitoring owns the process-wide diagnostic logger. The TUI owns
// stdout, so logs go to a file or are discarded entirely.
package monitoring

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Log returns the package logger. Safe to call before Setup; until then all
// output is discarded.
func Log() *logrus.Logger {
	return logger
}

// SetLogger replaces the package logger. Passing nil restores the discarding
// default. Tests can redirect or mute diagnostics this way.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		logger = newDiscardLogger()
		return
	}
	logger = l
}

// Setup directs diagnostics to the given file, appending across runs. An
// empty path leaves the discarding logger in place. The returned closer
// releases the file handle on shutdown.
func Setup(path string, level logrus.Level) (io.Closer, error) {
	if path == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger = l
	return f, nil
}

// Package logging wraps logrus to play the role of the solver's "Logger
// wrapper around the error stream": every diagnostic, warning, and proof
// comment destined for a human goes through a Logger rather than directly
// to os.Stderr, so the CLI's -L flag can tee it to a file.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is the writer sink the Prover and Solver Driver use for
// diagnostics. It always writes to stderr and optionally tees to an
// appended log file.
type Logger struct {
	entry   *logrus.Logger
	logFile *os.File
}

// New builds a Logger that writes to stderr, and, if logPath is non-empty,
// also appends to logPath.
func New(logPath string) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)

	lg := &Logger{entry: l}
	if logPath == "" {
		l.SetOutput(os.Stderr)
		return lg, nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %q", logPath)
	}
	lg.logFile = f
	l.SetOutput(io.MultiWriter(os.Stderr, f))
	return lg, nil
}

// Write implements io.Writer so a Logger can be used anywhere the solver
// wants a raw diagnostic stream (the Prover's comment stream, for
// instance).
func (l *Logger) Write(p []byte) (int, error) {
	l.entry.Out.Write(p)
	return len(p), nil
}

// Warn records a recoverable scheduler anomaly (spec's §7 "Scheduler
// warning" class): printed, never fatal.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Info records a non-fatal status line (SAT/UNSAT, elapsed time,
// statistics summaries).
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l.logFile == nil {
		return nil
	}
	return l.logFile.Close()
}

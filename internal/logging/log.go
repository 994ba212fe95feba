// Package logging provides the shared diagnostics logger for the harness.
// This is operator-facing stderr output; the per-project progress log is a
// separate plain-text file owned by the progress package.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	switch os.Getenv("BACKLOOP_LOG_LEVEL") {
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "WARN":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// GetLogger returns the shared logger instance.
func GetLogger() *logrus.Logger {
	return logger
}

// SetQuiet raises the level so only warnings and errors are emitted.
// The TUI uses this to keep the alternate screen clean.
func SetQuiet() {
	logger.SetLevel(logrus.WarnLevel)
}

// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shelterhq/refuge/config"
)

var (
	standardLogger *logrus.Logger
	once           sync.Once
)

// StandardLogger returns the singleton logger instance.
func StandardLogger() *logrus.Logger {
	once.Do(func() {
		standardLogger = logrus.New()
		standardLogger.SetFormatter(&logrus.JSONFormatter{})
	})
	return standardLogger
}

// Init applies the given configuration to the standard logger and returns a
// cleanup function closing the log file, if any.
func Init(c *config.Logger) (func(), error) {
	l := StandardLogger()

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	l.SetLevel(level)

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	var logFile *os.File
	if c.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.OutputFile), 0o755); err != nil {
			return nil, fmt.Errorf("error creating log directory: %w", err)
		}
		logFile, err = os.OpenFile(c.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		l.SetOutput(logFile)
	} else {
		l.SetOutput(os.Stdout)
	}

	return func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}, nil
}

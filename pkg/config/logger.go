package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the shared logger: JSON at info level in production,
// human-readable text at debug level everywhere else.
func NewLogger(appEnv string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if appEnv == "production" {
		logger.SetFormatter(new(logrus.JSONFormatter))
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetFormatter(new(logrus.TextFormatter))
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

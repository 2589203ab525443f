package util

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogLevel configures the logger level from a string, defaulting to info
// when the value is empty or unrecognized.
func SetLogLevel(logger *logrus.Logger, level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

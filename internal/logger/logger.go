// Package logger builds the process-wide logger.
package logger

import (
	"github.com/sirupsen/logrus"
)

// New returns a logrus logger at the given level. An unknown level
// falls back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

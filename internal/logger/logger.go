// Package logger provides prefixed logrus entries for the daemon's
// subsystems, so every line carries the subsystem that emitted it.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var root = newRoot()

func newRoot() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	if os.Getenv("STUDYBOT_DEBUG") != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// New returns an entry tagged with the given subsystem name.
func New(subsystem string) *logrus.Entry {
	return root.WithField("sys", subsystem)
}

// SetLevel adjusts the level of the shared root logger.
func SetLevel(level logrus.Level) {
	root.SetLevel(level)
}

package deposit

import (
	"github.com/sirupsen/logrus"
)

// log is the package logger. It starts at info level until the cli applies --log-level.
var log = logrus.New()

// SetLogLevel sets the level the package logs batch progress and decode failures at.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

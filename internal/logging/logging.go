// Package logging configures the application logger. Everything that logs —
// the server, the email service — receives the *logrus.Logger built here, so
// format and level are decided in exactly one place.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the logger for the given environment. Production logs JSON for
// the log pipeline; everything else logs human-readable text with debug
// enabled.
func New(env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
		return log
	}

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.DebugLevel)
	return log
}

// Package logger builds the structured logger used across the module.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a JSON-formatted logrus logger tagged with the component name.
// The level comes from the LOG_LEVEL environment variable and defaults to
// info.
func New(component string) *logrus.Entry {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(levelFromEnv())

	return log.WithField("component", component)
}

// Discard returns a logger that drops everything, for callers that want the
// transfer client silent.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func levelFromEnv() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

package logger

import (
	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger from the application settings.
// Called once at startup before any component logs.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}
}

// WithComponent returns an entry tagged with the originating component,
// so batch runs can be traced across the pipeline stages.
func WithComponent(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

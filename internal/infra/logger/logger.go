// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"team_rotator/internal/infra/config"
)

// Log is the global logger instance
var Log = logrus.New()

// Init configures the global logger from the application configuration and
// returns the in-memory buffer served by the logs endpoint.
func Init(cfg *config.AppConfig) *Buffer {
	buf := NewBuffer(DefaultBufferSize)
	Configure(Log, os.Stdout, cfg.LogLevel, cfg.Environment)
	Log.AddHook(buf)

	Log.WithFields(logrus.Fields{
		"level":       Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Debug("Logger initialized")
	return buf
}

// Configure applies output, level and formatter to log.
// An unknown level falls back to info with a warning.
func Configure(log *logrus.Logger, out io.Writer, level, environment string) {
	log.SetOutput(out)
	log.SetFormatter(formatterFor(environment))

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.WithError(err).Warnf("Invalid log level %q, defaulting to info", level)
		return
	}
	log.SetLevel(parsed)
}

func formatterFor(environment string) logrus.Formatter {
	switch environment {
	case "production", "staging":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

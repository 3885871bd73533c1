package utils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// SetLogLevel maps the --loglevel flag onto Log. Unknown levels are an error.
func SetLogLevel(level string) error {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		return fmt.Errorf("bad log level %q (available: debug, info, warn, error, fatal)", level)
	}
	return nil
}

// RetryLogger adapts a logrus logger to go-retryablehttp's LeveledLogger.
type RetryLogger struct {
	L *logrus.Logger
}

func (r RetryLogger) entry(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return r.L.WithFields(fields)
}

func (r RetryLogger) Error(msg string, keysAndValues ...interface{}) {
	r.entry(keysAndValues).Error(msg)
}

func (r RetryLogger) Info(msg string, keysAndValues ...interface{}) {
	// retryablehttp logs every attempt at info; that is debug noise for us.
	r.entry(keysAndValues).Debug(msg)
}

func (r RetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.entry(keysAndValues).Debug(msg)
}

func (r RetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.entry(keysAndValues).Warn(msg)
}

package beaverlog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// internal reports the logger's own failures. It never goes through
// destinations so a broken sink cannot recurse into itself.
var internal = newInternalLogger(os.Stderr)

func newInternalLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: defaultDateLayout,
	})
	return l
}

// SetInternalOutput redirects the logger's own diagnostics.
func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	internal.SetOutput(w)
}

// SetInternalLevel sets the minimum level of the logger's own diagnostics.
func SetInternalLevel(level Level) {
	internal.SetLevel(logrusLevel(level))
}

func logrusLevel(level Level) logrus.Level {
	switch level {
	case VERBOSE:
		return logrus.TraceLevel
	case DEBUG:
		return logrus.DebugLevel
	case INFO:
		return logrus.InfoLevel
	case WARNING:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.FatalLevel
	}
}

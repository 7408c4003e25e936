package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the process-wide logger. An unparseable level falls
// back to info rather than failing startup.
func Init(level string) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.WithField("level", lvl.String()).Info("logger initialized")
}

// Component returns an entry tagged with the subsystem name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide structured logger. JSON to stdout so the log
// collector gets one object per line.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)

	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	l.SetLevel(lv)
	return l
}

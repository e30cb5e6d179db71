package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "wordstreak"
)

// New builds the root logger. Production gets JSON lines with the
// timestamp/severity/message field names log collectors expect; everything
// else gets the human-readable text formatter.
func New(level string, production bool, out io.Writer) *logrus.Entry {
	l := logrus.New()
	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)

	if production {
		l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  TIMESTAMP,
				logrus.FieldKeyLevel: SEVERITY,
				logrus.FieldKeyMsg:   MESSAGE,
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l.WithField(COMPONENT, SERVICENAME)
}

// Component derives a child logger tagged with the given component name.
func Component(parent *logrus.Entry, name string) *logrus.Entry {
	return parent.WithField(COMPONENT, SERVICENAME+"."+name)
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Package logging builds the logrus loggers shared by the CLI, the MCP
// server and the TUI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format selects the log line encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a logger writing to w at the given level. Unknown levels fall
// back to info.
func New(level string, format Format, w io.Writer) *logrus.Logger {
	log := logrus.New()
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Discard returns a logger that drops everything, for tests and for the TUI
// where stderr belongs to the terminal.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

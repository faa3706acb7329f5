// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var base = newLogger(os.Stderr)

// Options controls logger setup.
type Options struct {
	// Level is a logrus level name; empty means warn.
	Level string
	// File redirects output to a file (appended). Empty keeps stderr.
	File string
	// Verbose forces debug level regardless of Level.
	Verbose bool
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Setup applies opts to the shared logger. The returned closer releases the
// log file, if one was opened, and is always non-nil.
func Setup(opts Options) (io.Closer, error) {
	level := logrus.WarnLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nopCloser{}, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	base.SetLevel(level)

	if opts.File == "" {
		base.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nopCloser{}, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	base.SetOutput(f)
	return f, nil
}

// SetOutput redirects the shared logger, e.g. to silence it while a
// full-screen program owns the terminal.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return base
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package logging builds the logrus logger and the per-entity log sinks that
// pages and elements write to.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"ui_automation/domain/interfaces"
)

// Options configures the process logger.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Output replaces stderr as the console sink when set.
	Output io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger - creates the process logger. The returned closer releases the
// log file, if one is configured.
func NewLogger(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(out, file)
		closer = file
	}
	logger.SetOutput(out)

	return logger, closer, nil
}

// Factory hands out entity loggers sharing a set of fields.
type Factory struct {
	base *logrus.Entry
}

// NewFactory - creates an entity logger factory on top of logger
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{base: logrus.NewEntry(logger)}
}

// With returns a factory whose loggers also carry key=value.
func (f *Factory) With(key string, value interface{}) *Factory {
	return &Factory{base: f.base.WithField(key, value)}
}

// ForEntity - returns the log sink of the named page or element
func (f *Factory) ForEntity(name string) interfaces.EntityLogger {
	return &entityLogger{name: name, entry: f.base.WithField("entity", name)}
}

type entityLogger struct {
	name  string
	entry *logrus.Entry
}

// Stepf logs a test step as "--- [STEP] --- [entity] message".
func (l *entityLogger) Stepf(format string, args ...interface{}) {
	l.entry.Infof("--- [STEP] --- [%s] %s", l.name, fmt.Sprintf(format, args...))
}

func (l *entityLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *entityLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

var _ interfaces.LoggerFactory = (*Factory)(nil)

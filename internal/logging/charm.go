package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type CharmLogger struct {
	l *log.Logger
}

// NewCharmLogger creates a console logger with timestamps enabled.
func NewCharmLogger(w io.Writer) *CharmLogger {
	opts := log.Options{ReportTimestamp: true, Level: log.DebugLevel}
	return &CharmLogger{l: log.NewWithOptions(w, opts)}
}

func (c *CharmLogger) Debug(_ context.Context, msg string, args ...any) {
	c.l.Debug(msg, args...)
}

func (c *CharmLogger) Info(_ context.Context, msg string, args ...any) {
	c.l.Info(msg, args...)
}

func (c *CharmLogger) Warn(_ context.Context, msg string, args ...any) {
	c.l.Warn(msg, args...)
}

func (c *CharmLogger) Error(_ context.Context, msg string, args ...any) {
	c.l.Error(msg, args...)
}

func (c *CharmLogger) With(args ...any) Logger {
	return &CharmLogger{l: c.l.With(args...)}
}

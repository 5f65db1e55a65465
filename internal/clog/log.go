// Package clog wraps github.com/charmbracelet/log with the conventions
// every surface in this module shares: a timestamped logger, a
// progress tracker for long-running passes, and a context-attached logger
// so deeply nested calls (pkg/api, internal/httpapi handlers) can log
// without threading a *log.Logger argument through every signature.
package clog

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Progress tracks the start time of an operation and logs completion with
// elapsed duration. It is safe for sequential use by a single goroutine;
// concurrent calls to Done will race.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress creates a progress tracker that captures the current time as
// start. The returned Progress should call Done when the operation
// completes.
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done logs msg along with the elapsed time since the Progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "projected role T (12ms)"
func (p *Progress) Done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// WithLogger returns a new context with the given logger attached.
// The logger can be retrieved later with FromContext.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures callers always have a valid logger even if context setup
// failed upstream.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// OrDefault returns l if non-nil, otherwise log.Default() — the nilable
// *log.Logger convention every pkg/api function follows.
func OrDefault(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}

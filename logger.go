package unveil

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Hosts may swap it from another
// goroutine than the one driving the page, so access is atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for unveil and its host packages.
// By default unveil produces no log output. Pass nil to restore the silent
// default.
//
// Log levels used by unveil:
//   - [slog.LevelDebug]: skipped initializers, reveal and counter transitions,
//     per-frame stats in debug mode
//   - [slog.LevelInfo]: page mount summary
//   - [slog.LevelWarn]: tree sanity warnings in debug mode
//   - [slog.LevelError]: failed snapshot and screenshot writes
//
// Example:
//
//	unveil.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by unveil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

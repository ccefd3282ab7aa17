package ffshader

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/ffshader/compile"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ffshader and its sub-packages.
// By default, ffshader produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silent logging.
//
// Log levels used by ffshader:
//   - [slog.LevelDebug]: phase transitions, compiler runs, module creation
//   - [slog.LevelWarn]: bytecode store failures (the request still succeeds)
//
// Example:
//
//	ffshader.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	compile.SetLogger(l)
}

// Logger returns the current logger used by ffshader.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

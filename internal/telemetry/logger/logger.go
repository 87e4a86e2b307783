// Package logger provides structured logging for sigguard.
//
// It wraps log/slog behind a small interface so packages can take a
// Logger without caring about the handler. The level is held in a
// process-wide slog.LevelVar and can be changed at runtime (the run
// command does this when the config file changes).
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	Level     string    // debug, info, warn, error
	Format    string    // json (default) or text
	Output    io.Writer // nil means os.Stderr
	AddSource bool
}

// DefaultConfig returns JSON at info level on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

// entry binds a slog.Logger to the context its records are emitted with.
type entry struct {
	sl  *slog.Logger
	ctx context.Context
}

// New creates a logger and makes cfg.Level the process-wide level.
func New(cfg Config) (Logger, error) {
	SetLevel(cfg.Level)
	return &entry{sl: slog.New(newHandler(cfg)), ctx: context.Background()}, nil
}

func newHandler(cfg Config) slog.Handler {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	if f := strings.ToLower(cfg.Format); f == "text" || f == "console" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Nop returns a logger that discards everything, independent of the
// global level.
func Nop() Logger {
	return &entry{sl: slog.New(slog.NewJSONHandler(io.Discard, nil)), ctx: context.Background()}
}

func (e *entry) Debug(msg string, args ...any) { e.sl.Log(e.ctx, slog.LevelDebug, msg, args...) }
func (e *entry) Info(msg string, args ...any)  { e.sl.Log(e.ctx, slog.LevelInfo, msg, args...) }
func (e *entry) Warn(msg string, args ...any)  { e.sl.Log(e.ctx, slog.LevelWarn, msg, args...) }
func (e *entry) Error(msg string, args ...any) { e.sl.Log(e.ctx, slog.LevelError, msg, args...) }

func (e *entry) With(args ...any) Logger {
	return &entry{sl: e.sl.With(args...), ctx: e.ctx}
}

func (e *entry) WithContext(ctx context.Context) Logger {
	return &entry{sl: e.sl, ctx: ctx}
}

var std atomic.Pointer[entry]

func init() {
	l, _ := New(DefaultConfig())
	std.Store(l.(*entry))
}

// SetDefault replaces the package-level logger and routes slog's own
// package functions through it. Foreign Logger implementations are
// ignored.
func SetDefault(l Logger) {
	if e, ok := l.(*entry); ok {
		std.Store(e)
		slog.SetDefault(e.sl)
	}
}

// Default returns the package-level logger.
func Default() Logger {
	return std.Load()
}

// Slog returns the *slog.Logger behind l, or slog.Default() for foreign
// implementations. Used by components that take a *slog.Logger.
func Slog(l Logger) *slog.Logger {
	if e, ok := l.(*entry); ok {
		return e.sl
	}
	return slog.Default()
}

func Debug(msg string, args ...any) { std.Load().Debug(msg, args...) }
func Info(msg string, args ...any)  { std.Load().Info(msg, args...) }
func Warn(msg string, args ...any)  { std.Load().Warn(msg, args...) }
func Error(msg string, args ...any) { std.Load().Error(msg, args...) }

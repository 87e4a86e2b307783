package logger

import "context"

type contextKey string

const (
	loggerKey  contextKey = "sigguard.logger"
	programKey contextKey = "sigguard.program"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithProgram records the program name the process registered under.
func WithProgram(ctx context.Context, program string) context.Context {
	return context.WithValue(ctx, programKey, program)
}

// ProgramFromContext returns the program name recorded by WithProgram.
func ProgramFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(programKey).(string); ok {
		return p
	}
	return ""
}

// L is FromContext plus a "program" attribute when one is recorded.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if p := ProgramFromContext(ctx); p != "" {
		l = l.With("program", p)
	}
	return l
}

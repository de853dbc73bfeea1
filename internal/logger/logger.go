// Package logger provides structured logging using Go 1.21's log/slog.
// It sets up a JSON handler with service-level context and provides
// session ID propagation through context.Context so one client's chart
// requests can be correlated across gateway, engine and store logs.
package logger

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// Init creates and returns a structured logger for the given service.
// The logger outputs JSON to stdout with the service name embedded.
func Init(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With(
		slog.String("service", service),
	)

	// Set as default so log/slog.Info() etc. also use structured output
	slog.SetDefault(logger)

	return logger
}

// WithSessionID stores a client session ID in the context for downstream
// propagation.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID extracts the session ID from context. Returns "" if not set.
func SessionID(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// WithSession returns slog attributes including the session ID from context.
// Usage: slog.Info("msg", logger.WithSession(ctx)...)
func WithSession(ctx context.Context) []any {
	id := SessionID(ctx)
	if id == "" {
		return nil
	}
	return []any{slog.String("session_id", id)}
}

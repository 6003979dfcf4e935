package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the request identifier.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom extracts the request identifier from the context.
// Returns an empty string if none is set.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the logger annotated with any request-scoped fields
// present in the context.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return logger.With("request_id", id)
	}
	return logger
}

package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "respkv.logger"
	connIDKey    contextKey = "respkv.conn_id"
	requestIDKey contextKey = "respkv.request_id"
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

// WithConnID tags the context with a client connection ID.
func WithConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connIDKey, id)
}

// ConnIDFromContext returns the connection ID, or "".
func ConnIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(connIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds an HTTP request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// L returns the context's logger bound to ctx, tagged with its connection
// and request IDs.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}

package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "dms.logger"
	requestIDKey contextKey = "dms.request_id"
	tabIDKey     contextKey = "dms.tab_id"
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

// WithRequestID adds a request ID to the context.
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

// WithTabID adds the tab session ID to the context.
func WithTabID(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, tabIDKey, tabID)
}

// TabIDFromContext extracts the tab session ID from context.
func TabIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(tabIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for ForContext(FromContext(ctx), ctx).
func L(ctx context.Context) Logger {
	return ForContext(FromContext(ctx), ctx)
}

// ForContext enriches l with the request ID and tab ID found in ctx.
func ForContext(l Logger, ctx context.Context) Logger {
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		l = l.With("request_id", reqID)
	}
	if tabID := TabIDFromContext(ctx); tabID != "" {
		l = l.With("tab_id", tabID)
	}
	return l.WithContext(ctx)
}

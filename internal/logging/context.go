package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTarget is the standardized structured logging key for the directory being organized.
	FieldTarget = "target"
	// FieldSessionID is the standardized structured logging key for session identifiers.
	FieldSessionID = "session_id"
)

type contextKey string

const (
	targetContextKey  contextKey = "stellar.target"
	sessionContextKey contextKey = "stellar.session"
)

// WithTarget stores the organized directory on the context for log enrichment.
func WithTarget(ctx context.Context, target string) context.Context {
	return context.WithValue(ctx, targetContextKey, target)
}

// WithSessionID stores the active session identifier on the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if target, ok := ctx.Value(targetContextKey).(string); ok && target != "" {
		fields = append(fields, slog.String(FieldTarget, target))
	}
	if id, ok := ctx.Value(sessionContextKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// PassIDKey is the context key for lint pass identifiers.
	PassIDKey contextKey = "pass_id"

	// PathKey is the context key for the document being linted.
	PathKey contextKey = "path"

	// TriggerKey is the context key for what caused a pass (opened, saved, edited).
	TriggerKey contextKey = "trigger"
)

// WithPassID adds a pass ID to the context.
func WithPassID(ctx context.Context, passID string) context.Context {
	return context.WithValue(ctx, PassIDKey, passID)
}

// GetPassID retrieves the pass ID from the context.
func GetPassID(ctx context.Context) string {
	if id, ok := ctx.Value(PassIDKey).(string); ok {
		return id
	}
	return ""
}

// WithPath adds a document path to the context.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, PathKey, path)
}

// GetPath retrieves the document path from the context.
func GetPath(ctx context.Context) string {
	if path, ok := ctx.Value(PathKey).(string); ok {
		return path
	}
	return ""
}

// WithTrigger adds a pass trigger to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the pass trigger from the context.
func GetTrigger(ctx context.Context) string {
	if trigger, ok := ctx.Value(TriggerKey).(string); ok {
		return trigger
	}
	return ""
}

// extractContextFields returns the context's log fields as key-value pairs
// suitable for slog.
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if id := GetPassID(ctx); id != "" {
		fields = append(fields, string(PassIDKey), id)
	}
	if path := GetPath(ctx); path != "" {
		fields = append(fields, string(PathKey), path)
	}
	if trigger := GetTrigger(ctx); trigger != "" {
		fields = append(fields, string(TriggerKey), trigger)
	}
	return fields
}

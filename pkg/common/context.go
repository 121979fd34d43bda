package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserID     ContextKey = "user_id"
	ContextKeyPrivileged ContextKey = "privileged"
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok
}

// WithPrivileged marks the context as belonging to a privileged (game master)
// user. Export, import, broadcast and map annotations are gated on it.
func WithPrivileged(ctx context.Context, privileged bool) context.Context {
	return context.WithValue(ctx, ContextKeyPrivileged, privileged)
}

// IsPrivileged reports whether the context carries the privileged flag.
func IsPrivileged(ctx context.Context) bool {
	privileged, ok := ctx.Value(ContextKeyPrivileged).(bool)
	return ok && privileged
}

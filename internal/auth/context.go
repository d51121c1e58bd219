package auth

import (
	"context"

	"github.com/davisrp/timingboard/internal/storage"
)

// Identity is the authenticated caller, threaded explicitly through request
// contexts instead of living in ambient global state.
type Identity struct {
	UserID string
	Email  string
	Role   storage.Role
}

// IsAdmin reports whether the identity may perform admin operations.
func (id Identity) IsAdmin() bool {
	return id.Role == storage.RoleAdmin
}

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey int

const identityKey ctxKey = iota

// WithIdentity attaches the caller's identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated identity.
// The second return is false for unauthenticated contexts.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if v := ctx.Value(identityKey); v != nil {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

package auth

import (
	"context"

	"github.com/ratehub/ratehub/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// principalKey is the context key for storing the authenticated Principal.
const principalKey contextKey = "principal"

// ContextWithPrincipal adds the authenticated Principal to the context.
func ContextWithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the Principal from the context.
// The second return value is false if no auth middleware has run.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

// MustPrincipalFromContext retrieves the Principal from the context.
// Panics if not present (use only behind the auth middleware).
func MustPrincipalFromContext(ctx context.Context) model.Principal {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		panic("principal not found - ensure auth middleware is applied")
	}
	return p
}

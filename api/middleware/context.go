package middleware

import (
	"context"

	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/angelmondragon/footballzones-backend/pkg/visibility"
	"github.com/google/uuid"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// Principal is the authenticated caller extracted from an access token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
	Name   string
}

// WithPrincipal injects the caller into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext returns the caller and whether one was authenticated.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}

// RequesterFromContext converts the caller into the article access subject.
// Entitlement is resolved later by the article service.
func RequesterFromContext(ctx context.Context) visibility.Requester {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return visibility.Requester{}
	}
	id := p.UserID
	return visibility.Requester{UserID: &id, Role: p.Role}
}

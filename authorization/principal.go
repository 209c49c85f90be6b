package authorization

import (
	"context"

	"github.com/TheYassAnz/coabi-backend/domain"
)

// Principal is the authenticated identity attached to every request by
// the authentication middleware. All policy decisions read from it.
//
// TestBypass widens every policy decision to allow; it is only ever set
// by tests that inject a principal directly, never by the middleware.
type Principal struct {
	UserID          string
	Role            domain.Role
	AccommodationID string
	TestBypass      bool
}

func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(Principal)
	return principal, ok
}

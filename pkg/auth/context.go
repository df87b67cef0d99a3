package auth

import (
	"context"
	"errors"
	"time"

	"parkwise/domain/core/valueobjects"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID    string
	Email     string
	Role      valueobjects.Role
	OfficeID  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role valueobjects.Role) bool {
	return p != nil && p.Role == role
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal adds principal to context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the principal set by the authentication middleware.
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, errors.New("principal not found in context")
	}
	return p, nil
}

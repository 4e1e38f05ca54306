package auth

import (
	"context"
	"errors"
)

// Access failures raised by the gate and the access decision point.
var (
	ErrUnauthorized = errors.New("full authentication is required to access this resource")
	ErrForbidden    = errors.New("access is denied")
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

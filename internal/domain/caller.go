package domain

import (
	"context"
	"fmt"
)

// Role is the caller's side of the marketplace.
type Role string

// Caller roles.
const (
	RoleEmployer  Role = "employer"
	RoleCandidate Role = "candidate"
)

// ParseRole validates a role header value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployer, RoleCandidate:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// Caller is the authenticated identity resolved by the upstream auth layer.
type Caller struct {
	ID   string
	Role Role
}

type callerKey struct{}

// ContextWithCaller stores the caller in ctx.
func ContextWithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller stored in ctx, if any.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok && c.ID != ""
}

// Owns reports whether the caller may use an entity owned by ownerID as an anchor.
func (c Caller) Owns(ownerID string) bool {
	return c.ID != "" && c.ID == ownerID
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

// Roles recognised by the permission gate.
const (
	RoleAdmin  = "ADMIN"
	RoleStaff  = "STAFF"
	RoleMember = "MEMBER"
)

// Actor is the authenticated identity a request acts as. It travels in the
// request context instead of any ambient global.
type Actor struct {
	ID   uuid.UUID
	Role string
}

type actorContextKey struct{}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom extracts the authenticated actor from the context.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}

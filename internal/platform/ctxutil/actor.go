package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// WithActor records the authenticated end user behind a request.
// Service callers carry no actor.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(Default(ctx), actorKey{}, userID)
}

func ActorUserID(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ActorMayAccess reports whether the request's actor, if any, owns userID.
func ActorMayAccess(ctx context.Context, userID uuid.UUID) bool {
	actor, ok := ActorUserID(ctx)
	return !ok || actor == userID
}

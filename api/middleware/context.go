package middleware

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxActorID   ctxKey = "actor_id"
	ctxFactoryID ctxKey = "factory_id"
)

// ActorID returns the authenticated actor's id from the request context.
func ActorID(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(ctxActorID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithActorID stores the actor id on the context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ctxActorID, actorID)
}

// WithFactoryID stores the actor's home factory on the context.
func WithFactoryID(ctx context.Context, factoryID string) context.Context {
	return context.WithValue(ctx, ctxFactoryID, factoryID)
}

// FactoryID returns the actor's home factory, when the token carries one.
func FactoryID(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(ctxFactoryID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

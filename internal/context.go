package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey  ctxKey = "userID"
	ContextActorKey ctxKey = "actor"
)

const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func (a Actor) IsStaff() bool {
	return a.HasRole(RoleHR, RoleAdmin)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	ctx = ContextWithUserID(ctx, actor.ID)
	return context.WithValue(ctx, ContextActorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ContextActorKey).(Actor)
	return actor, ok
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

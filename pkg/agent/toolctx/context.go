package toolctx

import (
	"context"

	"taskchat-be/internal/repository/unitofwork"
)

// RequestContext carries the per-turn state tool handlers need: whose data
// they operate on and which unit of work to go through. It is constructed at
// the start of a chat turn and passed explicitly, never stored in globals.
type RequestContext struct {
	uow    unitofwork.UnitOfWork
	userId int64
}

func New(uow unitofwork.UnitOfWork, userId int64) *RequestContext {
	return &RequestContext{uow: uow, userId: userId}
}

func (r *RequestContext) UserId() int64 {
	return r.userId
}

func (r *RequestContext) UnitOfWork() unitofwork.UnitOfWork {
	return r.uow
}

type contextKey struct{}

// Inject attaches the request context so tool executions deep inside a
// provider's internal loop can recover it.
func Inject(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the attached request context, or nil when a tool is
// invoked outside a chat turn.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(contextKey{}).(*RequestContext)
	return rc
}

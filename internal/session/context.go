package session

import "context"

type ctxKey int

const sessionCtxKey ctxKey = iota

func NewContextWithSession(baseCtx context.Context, sessionID string) context.Context {
	return context.WithValue(baseCtx, sessionCtxKey, sessionID)
}

func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionCtxKey).(string)
	return id, ok
}

package session

import "context"

type contextKey string

const sessionKey contextKey = "session"

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)

	return s, ok && s != nil
}

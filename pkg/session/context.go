package session

import "context"

type sessionContextKey struct{}

// WithSession adds a session to the context.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext retrieves a session from the context.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	return sess, ok
}

// MustFromContext retrieves a session from the context or panics.
func MustFromContext(ctx context.Context) *Session {
	sess, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return sess
}

// UserIDFromContext retrieves the bound user id from the session in context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	sess, ok := FromContext(ctx)
	if !ok || !sess.IsAuthenticated() {
		return "", false
	}
	return *sess.UserID, true
}

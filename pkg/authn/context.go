package authn

import (
	"context"

	"github.com/metriclab/platformkit/pkg/directory"
)

type userContextKey struct{}

// WithUser adds an authenticated user to the context.
func WithUser(ctx context.Context, user *directory.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context. The
// second result is false for anonymous requests.
func UserFromContext(ctx context.Context) (*directory.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*directory.User)
	return user, ok
}

// MustUserFromContext retrieves the authenticated user or panics. Use only
// behind middleware that guarantees an authenticated identity.
func MustUserFromContext(ctx context.Context) *directory.User {
	user, ok := UserFromContext(ctx)
	if !ok {
		panic("authn: user not found in context")
	}
	return user
}

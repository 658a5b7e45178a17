package authn

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/metriclab/platformkit/pkg/directory"
	"github.com/metriclab/platformkit/pkg/session"
)

// The bearer credential travels in Authorization on the request, and a
// newly minted anonymous session id travels back in the same header on the
// response.
const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// unauthorizedBody is the constant rejection body. No further detail is
// leaked to the caller.
const unauthorizedBody = "UNAUTHORIZED"

// UserResolver loads a user by id; *directory.UserRepository satisfies it.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*directory.User, error)
}

// Middleware is the authentication layer in front of the host router. It is
// stateless between requests and safe for concurrent use.
type Middleware struct {
	sessions *session.Manager
	users    UserResolver
	routes   *RouteTable
	cache    IdentityCache
	logger   *slog.Logger
	metrics  *metrics

	registerer prometheus.Registerer
}

// MiddlewareOption configures a Middleware during construction.
type MiddlewareOption func(*Middleware)

// WithMiddlewareLogger configures the logger.
func WithMiddlewareLogger(logger *slog.Logger) MiddlewareOption {
	return func(m *Middleware) {
		m.logger = logger
	}
}

// WithIdentityCache configures a read-through cache for bound-session user
// lookups.
func WithIdentityCache(cache IdentityCache) MiddlewareOption {
	return func(m *Middleware) {
		m.cache = cache
	}
}

// WithMetricsRegisterer registers the decision counter with the given
// Prometheus registerer.
func WithMetricsRegisterer(reg prometheus.Registerer) MiddlewareOption {
	return func(m *Middleware) {
		m.registerer = reg
	}
}

// New creates the middleware. The route table is injected rather than
// hardcoded so each deployment decides what is publicly reachable.
func New(sessions *session.Manager, users UserResolver, routes *RouteTable, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		sessions: sessions,
		users:    users,
		routes:   routes,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.metrics = newMetrics(m.registerer)
	return m
}

// Handler wraps the downstream handler with the authentication decision
// tree. Exactly two terminal states reject (missing credential on a
// non-public route, unresolvable credential or drifted user) and three
// accept (anonymous-new, anonymous-existing, authenticated).
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := bearerToken(r)

		if token == "" {
			if !m.routes.AnonymousAllowed(r.Method, r.URL.Path) {
				m.reject(ctx, w, "no credential on protected route")
				return
			}

			sess, err := m.sessions.Create(ctx, nil)
			if err != nil {
				// Minting failed, which is a store problem, not an
				// authentication outcome.
				m.logger.ErrorContext(ctx, "failed to mint anonymous session", slog.Any("error", err))
				m.metrics.observe(outcomeError)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			m.logger.InfoContext(ctx, "new anonymous access", slog.String("session_id", sess.ID))
			m.metrics.observe(outcomeAnonymousNew)

			// Headers must be in place before downstream writes the status.
			w.Header().Set(authorizationHeader, bearerPrefix+sess.ID)
			next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, sess)))
			return
		}

		sess, err := m.sessions.Resolve(ctx, token)
		if err != nil {
			// Every resolution failure maps to the same rejection; the
			// caller cannot distinguish an invalid token from a session
			// that vanished mid-request.
			m.reject(ctx, w, "session did not resolve")
			return
		}

		ctx = session.WithSession(ctx, sess)

		if !sess.IsAuthenticated() {
			m.metrics.observe(outcomeAnonymous)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		user, err := m.lookupUser(ctx, *sess.UserID)
		if err != nil {
			// The session record drifted from the user store.
			m.reject(ctx, w, "session bound to unknown user")
			return
		}

		m.metrics.observe(outcomeAuthenticated)
		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

// lookupUser resolves a bound user, consulting the identity cache first
// when one is configured.
func (m *Middleware) lookupUser(ctx context.Context, userID string) (*directory.User, error) {
	if m.cache != nil {
		if user, ok := m.cache.Get(ctx, userID); ok {
			return user, nil
		}
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		m.cache.Set(ctx, userID, user)
	}
	return user, nil
}

func (m *Middleware) reject(ctx context.Context, w http.ResponseWriter, reason string) {
	m.logger.InfoContext(ctx, "request rejected", slog.String("reason", reason))
	m.metrics.observe(outcomeUnauthorized)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}

// bearerToken extracts the bearer credential from the request. A missing
// header, a non-bearer scheme, or an empty token are all treated as "no
// credential".
func bearerToken(r *http.Request) string {
	value := r.Header.Get(authorizationHeader)
	if !strings.HasPrefix(value, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(value, bearerPrefix)
}

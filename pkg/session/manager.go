package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/metriclab/platformkit/pkg/entitystore"
	"github.com/metriclab/platformkit/pkg/storekey"
)

const attrCSRFToken = "csrf_token"

// Manager creates and resolves sessions. It owns the decision of when a
// session is anonymous versus bound, never the storage encoding itself.
type Manager struct {
	store  entitystore.Store
	logger *slog.Logger
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithLogger configures the logger for the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager on top of the given store.
func NewManager(store entitystore.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create mints a session with a fresh id and a fresh anti-forgery token.
// A nil userID produces an anonymous session.
func (m *Manager) Create(ctx context.Context, userID *string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CSRFToken: uuid.NewString(),
	}

	row := entitystore.Row{
		Key:   storekey.Session(sess.ID),
		Attrs: entitystore.Record{attrCSRFToken: sess.CSRFToken},
	}
	if sess.UserID != nil {
		row.Index1 = storekey.User(*sess.UserID)
	}

	if err := m.store.Put(ctx, row); err != nil {
		return nil, fmt.Errorf("session: failed to store session: %w", err)
	}

	m.logger.InfoContext(ctx, "session created",
		slog.String("session_id", sess.ID),
		slog.Bool("anonymous", sess.UserID == nil),
	)

	return sess, nil
}

// Resolve fetches a session by id. A malformed id, a missing row, or a
// corrupt row all surface as ErrInvalidSession. Store unavailability
// propagates unchanged so the caller may retry.
func (m *Manager) Resolve(ctx context.Context, id string) (*Session, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidSession
	}

	row, err := m.store.Get(ctx, storekey.Session(id))
	switch {
	case errors.Is(err, entitystore.ErrUnavailable):
		return nil, err
	case err != nil:
		return nil, errors.Join(ErrInvalidSession, err)
	}

	sess, err := decodeSession(row)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	return sess, nil
}

// Revoke deletes a session so its id can no longer authenticate. It is the
// extension point for logout and future expiry policies. Revoking an
// unknown session reports entitystore.ErrNotFound.
func (m *Manager) Revoke(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, storekey.Session(id)); err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "session revoked", slog.String("session_id", id))
	return nil
}

// decodeSession converts a raw store row into a Session.
func decodeSession(row entitystore.Row) (*Session, error) {
	if row.Key.Kind() != storekey.KindSession {
		return nil, fmt.Errorf("%w: expected session key, got %q", entitystore.ErrCorruptRecord, row.Key.Kind())
	}

	csrf, ok := row.Attrs.String(attrCSRFToken)
	if !ok {
		return nil, fmt.Errorf("%w: %s missing attribute %q", entitystore.ErrCorruptRecord, row.Key, attrCSRFToken)
	}

	sess := &Session{
		ID:        row.Key.ID(),
		CSRFToken: csrf,
	}

	if !row.Index1.IsZero() {
		if row.Index1.Kind() != storekey.KindUser {
			return nil, fmt.Errorf("%w: %s has non-user binding %q", entitystore.ErrCorruptRecord, row.Key, row.Index1.Kind())
		}
		userID := row.Index1.ID()
		sess.UserID = &userID
	}

	return sess, nil
}

package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/metriclab/platformkit/pkg/entitystore"
	"github.com/metriclab/platformkit/pkg/storekey"
)

// Attribute names of the user row.
const (
	attrFirstName      = "first_name"
	attrLastName       = "last_name"
	attrIsActive       = "is_active"
	attrUserType       = "user_type"
	attrCredentialHash = "credential_hash"
)

// DefaultUserType classifies users created without an explicit type.
const DefaultUserType = "member"

// User is a platform user account.
type User struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	IsActive       bool
	Type           string
	CredentialHash string
}

// EmailIndex is the denormalized row mapping an email address to a user id.
// It exists because the store's secondary index projects only keys, so
// reverse lookup by email needs its own row.
type EmailIndex struct {
	Email  string
	UserID string
}

// CreateUserInput carries the attributes for a new user.
type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Type      string // defaults to DefaultUserType
	Password  string // hashed with bcrypt before storage
}

// UserRepository provides CRUD access to user rows and their email-lookup
// rows. It is safe for concurrent use.
type UserRepository struct {
	store      entitystore.Store
	bcryptCost int
	logger     *slog.Logger
}

// UserOption configures a UserRepository during construction.
type UserOption func(*UserRepository)

// WithUserLogger configures the logger for the repository.
func WithUserLogger(logger *slog.Logger) UserOption {
	return func(r *UserRepository) {
		r.logger = logger
	}
}

// WithUserBcryptCost configures the bcrypt cost parameter for credential
// hashing.
func WithUserBcryptCost(cost int) UserOption {
	return func(r *UserRepository) {
		r.bcryptCost = cost
	}
}

// NewUserRepository creates a repository on top of the given store.
func NewUserRepository(store entitystore.Store, opts ...UserOption) *UserRepository {
	r := &UserRepository{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new user and its email-lookup row. The two writes are not
// transactional: a reader can observe the user row before the email row
// exists. Returns the stored entity with its generated id.
func (r *UserRepository) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	userType := in.Type
	if userType == "" {
		userType = DefaultUserType
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), r.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("directory: failed to hash credential: %w", err)
	}

	user := &User{
		ID:             id,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		IsActive:       true,
		Type:           userType,
		CredentialHash: string(hash),
	}

	if err := r.store.Put(ctx, entitystore.Row{
		Key:    storekey.User(user.ID),
		Index1: storekey.Email(user.Email),
		Index2: storekey.UserType(user.Type),
		Attrs: entitystore.Record{
			attrFirstName:      user.FirstName,
			attrLastName:       user.LastName,
			attrIsActive:       user.IsActive,
			attrUserType:       user.Type,
			attrCredentialHash: user.CredentialHash,
		},
	}); err != nil {
		return nil, fmt.Errorf("directory: failed to store user: %w", err)
	}

	if err := r.store.Put(ctx, entitystore.Row{
		Key:    storekey.Email(user.Email),
		Index1: storekey.User(user.ID),
	}); err != nil {
		return nil, fmt.Errorf("directory: failed to store email index: %w", err)
	}

	r.logger.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID),
		slog.String("user_type", user.Type),
	)

	return user, nil
}

// GetByID fetches a user by id. Returns entitystore.ErrNotFound when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	row, err := r.store.Get(ctx, storekey.User(id))
	if err != nil {
		return nil, err
	}
	return decodeUser(row)
}

// GetByEmail resolves the email-lookup row first, then the primary user row
// by the embedded user id. The two reads are not atomic: a concurrent create
// or delete can leave a window where the index row exists but the user row
// does not (or vice versa); both cases surface as entitystore.ErrNotFound
// and a caller may retry once.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row, err := r.store.Get(ctx, storekey.Email(email))
	if err != nil {
		return nil, err
	}

	idx, err := decodeEmailIndex(row)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, idx.UserID)
}

// Delete removes the user row and its email-lookup row. Returns
// entitystore.ErrNotFound when the user does not exist. A missing email row
// is tolerated; the pair is not written transactionally.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, storekey.User(id)); err != nil {
		return err
	}

	if err := r.store.Delete(ctx, storekey.Email(user.Email)); err != nil && !errors.Is(err, entitystore.ErrNotFound) {
		return err
	}

	return nil
}

// decodeUser converts a raw store row into a User, failing with
// entitystore.ErrCorruptRecord when any required attribute is absent or of
// the wrong shape.
func decodeUser(row entitystore.Row) (*User, error) {
	if row.Key.Kind() != storekey.KindUser {
		return nil, fmt.Errorf("%w: expected user key, got %q", entitystore.ErrCorruptRecord, row.Key.Kind())
	}
	if row.Index1.Kind() != storekey.KindEmail {
		return nil, fmt.Errorf("%w: user %s has no email projection", entitystore.ErrCorruptRecord, row.Key.ID())
	}

	firstName, ok := row.Attrs.String(attrFirstName)
	if !ok {
		return nil, corruptAttr(row, attrFirstName)
	}
	lastName, ok := row.Attrs.String(attrLastName)
	if !ok {
		return nil, corruptAttr(row, attrLastName)
	}
	isActive, ok := row.Attrs.Bool(attrIsActive)
	if !ok {
		return nil, corruptAttr(row, attrIsActive)
	}
	userType, ok := row.Attrs.String(attrUserType)
	if !ok {
		return nil, corruptAttr(row, attrUserType)
	}
	hash, ok := row.Attrs.String(attrCredentialHash)
	if !ok {
		return nil, corruptAttr(row, attrCredentialHash)
	}

	return &User{
		ID:             row.Key.ID(),
		Email:          row.Index1.ID(),
		FirstName:      firstName,
		LastName:       lastName,
		IsActive:       isActive,
		Type:           userType,
		CredentialHash: hash,
	}, nil
}

// decodeEmailIndex converts a raw email-lookup row into its typed form.
func decodeEmailIndex(row entitystore.Row) (*EmailIndex, error) {
	if row.Key.Kind() != storekey.KindEmail {
		return nil, fmt.Errorf("%w: expected email key, got %q", entitystore.ErrCorruptRecord, row.Key.Kind())
	}
	if row.Index1.Kind() != storekey.KindUser {
		return nil, fmt.Errorf("%w: email row %s has no user projection", entitystore.ErrCorruptRecord, row.Key.ID())
	}

	return &EmailIndex{
		Email:  row.Key.ID(),
		UserID: row.Index1.ID(),
	}, nil
}

func corruptAttr(row entitystore.Row, name string) error {
	return fmt.Errorf("%w: %s missing or mistyped attribute %q", entitystore.ErrCorruptRecord, row.Key, name)
}

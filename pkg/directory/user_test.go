package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/metriclab/platformkit/pkg/directory"
	"github.com/metriclab/platformkit/pkg/entitystore"
	"github.com/metriclab/platformkit/pkg/storekey"
)

func newUserRepo(t *testing.T) (*directory.UserRepository, *entitystore.MemoryStore) {
	t.Helper()
	store := entitystore.NewMemoryStore()
	repo := directory.NewUserRepository(store, directory.WithUserBcryptCost(bcrypt.MinCost))
	return repo, store
}

func TestUserCreate(t *testing.T) {
	t.Parallel()

	repo, store := newUserRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, directory.CreateUserInput{
		Email:     "jane@acme.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "correct horse battery staple",
	})
	require.NoError(t, err)

	assert.Len(t, user.ID, 30)
	assert.Equal(t, "jane@acme.com", user.Email)
	assert.Equal(t, directory.DefaultUserType, user.Type)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte("correct horse battery staple")))

	// Both the primary row and the email-lookup row exist.
	_, err = store.Get(ctx, storekey.User(user.ID))
	assert.NoError(t, err)
	_, err = store.Get(ctx, storekey.Email("jane@acme.com"))
	assert.NoError(t, err)
}

func TestUserCreateGeneratesDistinctIDs(t *testing.T) {
	t.Parallel()

	repo, _ := newUserRepo(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		user, err := repo.Create(ctx, directory.CreateUserInput{Email: "u@acme.com", Password: "pw"})
		require.NoError(t, err)
		assert.False(t, seen[user.ID])
		seen[user.ID] = true
	}
}

func TestUserGetByID(t *testing.T) {
	t.Parallel()

	repo, _ := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, directory.CreateUserInput{
		Email:     "jane@acme.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Type:      "admin",
		Password:  "pw",
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, entitystore.ErrNotFound)
}

func TestUserGetByEmail(t *testing.T) {
	t.Parallel()

	repo, store := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, directory.CreateUserInput{Email: "jane@acme.com", Password: "pw"})
	require.NoError(t, err)

	t.Run("create then lookup returns same id", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "jane@acme.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@acme.com")
		assert.ErrorIs(t, err, entitystore.ErrNotFound)
	})

	t.Run("dangling index row surfaces as not found", func(t *testing.T) {
		// Simulate the non-atomic window: the user row vanished while the
		// email row survived.
		require.NoError(t, store.Delete(ctx, storekey.User(created.ID)))

		_, err := repo.GetByEmail(ctx, "jane@acme.com")
		assert.ErrorIs(t, err, entitystore.ErrNotFound)
	})
}

func TestUserDelete(t *testing.T) {
	t.Parallel()

	repo, store := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, directory.CreateUserInput{Email: "jane@acme.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, entitystore.ErrNotFound)
	_, err = store.Get(ctx, storekey.Email("jane@acme.com"))
	assert.ErrorIs(t, err, entitystore.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), entitystore.ErrNotFound)
}

func TestUserDecodeCorruptRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name string
		row  entitystore.Row
	}{
		{
			name: "missing attribute",
			row: entitystore.Row{
				Key:    storekey.User("u1"),
				Index1: storekey.Email("jane@acme.com"),
				Attrs: entitystore.Record{
					"first_name": "Jane",
					// last_name absent
					"is_active":       true,
					"user_type":       "member",
					"credential_hash": "x",
				},
			},
		},
		{
			name: "mistyped attribute",
			row: entitystore.Row{
				Key:    storekey.User("u1"),
				Index1: storekey.Email("jane@acme.com"),
				Attrs: entitystore.Record{
					"first_name":      "Jane",
					"last_name":       "Doe",
					"is_active":       "yes", // should be bool
					"user_type":       "member",
					"credential_hash": "x",
				},
			},
		},
		{
			name: "missing email projection",
			row: entitystore.Row{
				Key: storekey.User("u1"),
				Attrs: entitystore.Record{
					"first_name":      "Jane",
					"last_name":       "Doe",
					"is_active":       true,
					"user_type":       "member",
					"credential_hash": "x",
				},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := entitystore.NewMemoryStore()
			require.NoError(t, store.Put(ctx, tt.row))

			repo := directory.NewUserRepository(store)
			_, err := repo.GetByID(ctx, "u1")
			assert.ErrorIs(t, err, entitystore.ErrCorruptRecord)
		})
	}
}

func TestEmailIndexDecodeCorrupt(t *testing.T) {
	t.Parallel()

	store := entitystore.NewMemoryStore()
	ctx := context.Background()

	// Email row with no user projection.
	require.NoError(t, store.Put(ctx, entitystore.Row{Key: storekey.Email("jane@acme.com")}))

	repo := directory.NewUserRepository(store)
	_, err := repo.GetByEmail(ctx, "jane@acme.com")
	assert.ErrorIs(t, err, entitystore.ErrCorruptRecord)
}

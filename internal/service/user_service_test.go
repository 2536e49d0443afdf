package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	user, err := env.userSvc.Register(ctx, "  alice ", strPtr("alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.APIKey)
	assert.True(t, user.Active)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.userSvc.Register(ctx, "alice", nil)
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})
	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.userSvc.Register(ctx, "alice2", strPtr("alice@example.com"))
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})
	t.Run("missing username", func(t *testing.T) {
		_, err := env.userSvc.Register(ctx, "", nil)
		assert.ErrorIs(t, err, ErrConstraintViolation)
	})
	t.Run("blank email is stored as null", func(t *testing.T) {
		u, err := env.userSvc.Register(ctx, "bob", strPtr(" "))
		require.NoError(t, err)
		assert.Nil(t, u.Email)
	})

	all, err := env.userSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserService_Lookups(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	alice, err := env.userSvc.Register(ctx, "alice", strPtr("alice@example.com"))
	require.NoError(t, err)

	users, err := env.userSvc.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	users, err = env.userSvc.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = env.userSvc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = env.userSvc.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "user not found", Reason(err))

	_, err = env.userSvc.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_List_Empty(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.userSvc.List(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "users not found", Reason(err))
}

func TestUserService_BlacklistWhitelist(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	admin := env.register(t, "admin")
	require.True(t, admin.Admin)
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")

	t.Run("non-admin is refused", func(t *testing.T) {
		assert.ErrorIs(t, env.userSvc.Blacklist(ctx, bob, carol.ID), ErrForbidden)
		assert.ErrorIs(t, env.userSvc.Whitelist(ctx, bob, carol.ID), ErrForbidden)
		require.NoError(t, env.identities.Validate(ctx, carol.APIKey))
	})

	t.Run("admin cannot blacklist itself", func(t *testing.T) {
		assert.ErrorIs(t, env.userSvc.Blacklist(ctx, admin, admin.ID), ErrForbidden)
		require.NoError(t, env.identities.Validate(ctx, admin.APIKey))
	})

	t.Run("blacklist then whitelist", func(t *testing.T) {
		require.NoError(t, env.userSvc.Blacklist(ctx, admin, bob.ID))
		assert.ErrorIs(t, env.identities.Validate(ctx, bob.APIKey), ErrInvalidCredential)

		require.NoError(t, env.userSvc.Whitelist(ctx, admin, bob.ID))
		assert.NoError(t, env.identities.Validate(ctx, bob.APIKey))
	})

	t.Run("unknown target", func(t *testing.T) {
		assert.ErrorIs(t, env.userSvc.Blacklist(ctx, admin, 404), ErrNotFound)
	})

	t.Run("admin may whitelist itself", func(t *testing.T) {
		assert.NoError(t, env.userSvc.Whitelist(ctx, admin, admin.ID))
	})
}

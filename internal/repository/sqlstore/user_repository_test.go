package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/sqlite"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{Username: "alice", Email: strPtr("alice@example.com")}
	id, err := repo.Create(ctx, user, "hash-a")
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.Active)

	users, err := repo.Find(ctx, repository.UserFilter{ID: &id})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	require.NotNil(t, users[0].Email)
	assert.Equal(t, "alice@example.com", *users[0].Email)
	assert.True(t, users[0].Active)
}

func TestUserRepository_Create_Duplicates(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.Create(ctx, &domain.User{Username: "alice", Email: strPtr("a@example.com")}, "hash-1")
	require.NoError(t, err)

	tests := []struct {
		name string
		user *domain.User
		hash string
	}{
		{name: "same username", user: &domain.User{Username: "alice"}, hash: "hash-2"},
		{name: "same email", user: &domain.User{Username: "bob", Email: strPtr("a@example.com")}, hash: "hash-3"},
		{name: "same key hash", user: &domain.User{Username: "carol"}, hash: "hash-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.user, tt.hash)
			assert.ErrorIs(t, err, repository.ErrConstraint)
			var liteErr *sqlite.Error
			assert.ErrorAs(t, err, &liteErr)
		})
	}

	all, err := repo.Find(ctx, repository.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepository_NullEmailsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.Create(ctx, &domain.User{Username: "alice"}, "hash-1")
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Username: "bob"}, "hash-2")
	require.NoError(t, err)
}

func TestUserRepository_KeyLookupsRequireActive(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, db, "alice")

	n, err := repo.CountActiveByKeyHash(ctx, "hash-alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetActiveByKeyHash(ctx, "hash-alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	aff, err := repo.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, aff)

	n, err = repo.CountActiveByKeyHash(ctx, "hash-alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.GetActiveByKeyHash(ctx, "hash-alice")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetActiveByKeyHash(ctx, "unknown")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_SetActive_Missing(t *testing.T) {
	db := setupTestDB(t)
	aff, err := NewUserRepository(db).SetActive(context.Background(), 42, false)
	require.NoError(t, err)
	assert.Zero(t, aff)
}

func TestUserRepository_Find(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.Create(ctx, &domain.User{Username: "alice", Email: strPtr("alice@example.com")}, "h1")
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Username: "bob"}, "h2")
	require.NoError(t, err)

	byName, err := repo.Find(ctx, repository.UserFilter{Username: strPtr("bob")})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Nil(t, byName[0].Email)

	byEmail, err := repo.Find(ctx, repository.UserFilter{Email: strPtr("alice@example.com")})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "alice", byEmail[0].Username)

	none, err := repo.Find(ctx, repository.UserFilter{Username: strPtr("nobody")})
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.Find(ctx, repository.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Username)
}

func TestUserRepository_Init_AddsMissingColumns(t *testing.T) {
	ctx := context.Background()
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	api_key_hash TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`)
	require.NoError(t, err)

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(ctx))
	// a second run is a no-op
	require.NoError(t, repo.Init(ctx))

	_, err = repo.Create(ctx, &domain.User{Username: "alice", Email: strPtr("a@example.com")}, "h1")
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Username: "bob", Email: strPtr("a@example.com")}, "h2")
	assert.ErrorIs(t, err, repository.ErrConstraint)

	n, err := repo.CountActiveByKeyHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

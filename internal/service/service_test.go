package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
	"keyed-api/internal/repository/sqlstore"
)

const testAdminID = 1

type testEnv struct {
	users      repository.UserRepository
	identities IdentityResolver
	userSvc    UserService
	messageSvc MessageService
	todoSvc    TodoService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlstore.NewUserRepository(db)
	messages := sqlstore.NewMessageRepository(db)
	todos := sqlstore.NewTodoRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, messages.Init(ctx))
	require.NoError(t, todos.Init(ctx))

	return &testEnv{
		users:      users,
		identities: NewIdentityResolver(users, testAdminID),
		userSvc:    NewUserService(users),
		messageSvc: NewMessageService(messages),
		todoSvc:    NewTodoService(todos),
	}
}

// register creates a user and resolves its identity.
func (e *testEnv) register(t *testing.T, username string) *domain.Identity {
	t.Helper()
	ctx := context.Background()
	user, err := e.userSvc.Register(ctx, username, nil)
	require.NoError(t, err)
	identity, err := e.identities.Resolve(ctx, user.APIKey)
	require.NoError(t, err)
	return identity
}

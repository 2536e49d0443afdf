package repository

import (
	"context"

	"keyed-api/internal/domain"
)

// TodoRepository manages owner-scoped todo rows. Every mutation is a single
// statement filtered by owner and id; the returned count is the number of
// rows that matched.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64, filter domain.TodoFilter) ([]domain.Todo, error)
	DeleteOwned(ctx context.Context, ownerID, id int64) (int64, error)
	SetDoneOwned(ctx context.Context, ownerID, id int64, done bool) (int64, error)
}

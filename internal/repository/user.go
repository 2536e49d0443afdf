package repository

import (
	"context"

	"keyed-api/internal/domain"
)

// UserFilter narrows Find. Nil fields are ignored; an empty filter matches every user.
type UserFilter struct {
	ID       *int64
	Username *string
	Email    *string
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User, keyHash string) (int64, error)
	CountActiveByKeyHash(ctx context.Context, keyHash string) (int, error)
	GetActiveByKeyHash(ctx context.Context, keyHash string) (*domain.User, error)
	Find(ctx context.Context, filter UserFilter) ([]domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) (int64, error)
}

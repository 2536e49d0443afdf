package repository

import (
	"context"

	"keyed-api/internal/domain"
)

// MessageRepository stores direct messages.
type MessageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	// ListForUser returns messages sent or received by userID, newest id first.
	ListForUser(ctx context.Context, userID int64) ([]domain.Message, error)
}

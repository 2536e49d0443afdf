package service

import (
	"context"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

// MessageService sends and reads direct messages on behalf of the caller.
type MessageService interface {
	Send(ctx context.Context, caller *domain.Identity, dst int64, content string) (*domain.Message, error)
	Read(ctx context.Context, caller *domain.Identity) ([]domain.Message, error)
}

type messageService struct {
	messages repository.MessageRepository
}

func NewMessageService(messages repository.MessageRepository) MessageService {
	return &messageService{messages: messages}
}

// Send does not check that dst exists.
func (s *messageService) Send(ctx context.Context, caller *domain.Identity, dst int64, content string) (*domain.Message, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	msg := &domain.Message{
		SenderID:   caller.ID,
		ReceiverID: dst,
		Content:    content,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, storeErr("send message", err)
	}
	return msg, nil
}

func (s *messageService) Read(ctx context.Context, caller *domain.Identity) ([]domain.Message, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	messages, err := s.messages.ListForUser(ctx, caller.ID)
	return nonEmpty(messages, err, "read messages", "No messages sent or received")
}

package service

import (
	"context"
	"fmt"
	"strings"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

// UserService describes registration, lookups and the admin blacklist.
type UserService interface {
	Register(ctx context.Context, username string, email *string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) ([]domain.User, error)
	FindByUsername(ctx context.Context, username string) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Blacklist(ctx context.Context, caller *domain.Identity, targetID int64) error
	Whitelist(ctx context.Context, caller *domain.Identity, targetID int64) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Register relies on the store's unique constraints; there is no pre-check.
func (s *userService) Register(ctx context.Context, username string, email *string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrConstraintViolation)
	}
	if email != nil {
		trimmed := strings.TrimSpace(*email)
		email = &trimmed
		if trimmed == "" {
			email = nil
		}
	}

	key := NewAPIKey()
	user := &domain.User{
		Username: username,
		Email:    email,
	}
	if _, err := s.users.Create(ctx, user, HashAPIKey(key)); err != nil {
		return nil, storeErr("register user", err)
	}
	user.APIKey = key
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) ([]domain.User, error) {
	users, err := s.users.Find(ctx, repository.UserFilter{ID: &id})
	return nonEmpty(users, err, "find user by id", "user not found")
}

func (s *userService) FindByUsername(ctx context.Context, username string) ([]domain.User, error) {
	users, err := s.users.Find(ctx, repository.UserFilter{Username: &username})
	return nonEmpty(users, err, "find user by username", "user not found")
}

func (s *userService) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	users, err := s.users.Find(ctx, repository.UserFilter{Email: &email})
	return nonEmpty(users, err, "find user by email", "user not found")
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.Find(ctx, repository.UserFilter{})
	return nonEmpty(users, err, "list users", "users not found")
}

// Blacklist deactivates targetID. Only the administrator may call it and the
// administrator cannot deactivate itself.
func (s *userService) Blacklist(ctx context.Context, caller *domain.Identity, targetID int64) error {
	if caller == nil || !caller.Admin || caller.ID == targetID {
		return ErrForbidden
	}
	return s.setActive(ctx, targetID, false)
}

func (s *userService) Whitelist(ctx context.Context, caller *domain.Identity, targetID int64) error {
	if caller == nil || !caller.Admin {
		return ErrForbidden
	}
	return s.setActive(ctx, targetID, true)
}

func (s *userService) setActive(ctx context.Context, id int64, active bool) error {
	aff, err := s.users.SetActive(ctx, id, active)
	if err != nil {
		return storeErr("set user active", err)
	}
	if aff == 0 {
		return withReason(ErrNotFound, "user not found")
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

// IdentityResolver maps an API key to an active user. Every lookup filters on
// the active flag, so a blacklisted key never resolves.
type IdentityResolver interface {
	// Validate reports ErrInvalidCredential when no active user holds key.
	Validate(ctx context.Context, key string) error
	// Resolve returns the caller's identity projection.
	Resolve(ctx context.Context, key string) (*domain.Identity, error)
}

type identityResolver struct {
	users   repository.UserRepository
	adminID int64
}

func NewIdentityResolver(users repository.UserRepository, adminID int64) IdentityResolver {
	return &identityResolver{users: users, adminID: adminID}
}

func (r *identityResolver) Validate(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrUnauthenticated
	}
	n, err := r.users.CountActiveByKeyHash(ctx, HashAPIKey(key))
	if err != nil {
		return fmt.Errorf("%w: validate key: %w", ErrInternal, err)
	}
	if n == 0 {
		return ErrInvalidCredential
	}
	return nil
}

func (r *identityResolver) Resolve(ctx context.Context, key string) (*domain.Identity, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrUnauthenticated
	}
	user, err := r.users.GetActiveByKeyHash(ctx, HashAPIKey(key))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("%w: resolve key: %w", ErrInternal, err)
	}
	return &domain.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		APIKey:   key,
		Admin:    user.ID == r.adminID,
	}, nil
}

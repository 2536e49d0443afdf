package service

import (
	"errors"
	"fmt"

	"keyed-api/internal/repository"
)

// storeErr converts a repository failure into the service taxonomy.
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrConstraint) {
		return fmt.Errorf("%w: %s: %w", ErrConstraintViolation, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// nonEmpty turns an empty query result into ErrNotFound carrying msg.
func nonEmpty[T any](items []T, err error, op, msg string) ([]T, error) {
	if err != nil {
		return nil, storeErr(op, err)
	}
	if len(items) == 0 {
		return nil, withReason(ErrNotFound, msg)
	}
	return items, nil
}

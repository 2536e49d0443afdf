package service

import (
	"context"
	"fmt"
	"strings"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

// TodoService exposes the caller's todo list. Mutations return the caller's
// full list afterwards, newest modification first.
type TodoService interface {
	Create(ctx context.Context, caller *domain.Identity, task string) ([]domain.Todo, error)
	Delete(ctx context.Context, caller *domain.Identity, id int64) ([]domain.Todo, error)
	SetDone(ctx context.Context, caller *domain.Identity, id int64, done bool) ([]domain.Todo, error)
	List(ctx context.Context, caller *domain.Identity, filter domain.TodoFilter) ([]domain.Todo, error)
}

// errNoSuchTask is returned for ids the caller does not own, whether or not
// they exist for someone else.
var errNoSuchTask = withReason(ErrForbidden, "no such task for this user")

type todoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func (s *todoService) Create(ctx context.Context, caller *domain.Identity, task string) ([]domain.Todo, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, fmt.Errorf("%w: task is required", ErrConstraintViolation)
	}
	if _, err := s.todos.Create(ctx, &domain.Todo{OwnerID: caller.ID, Task: task}); err != nil {
		return nil, storeErr("create todo", err)
	}
	return s.all(ctx, caller.ID)
}

func (s *todoService) Delete(ctx context.Context, caller *domain.Identity, id int64) ([]domain.Todo, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	aff, err := s.todos.DeleteOwned(ctx, caller.ID, id)
	if err != nil {
		return nil, storeErr("delete todo", err)
	}
	if aff == 0 {
		return nil, errNoSuchTask
	}
	return s.all(ctx, caller.ID)
}

func (s *todoService) SetDone(ctx context.Context, caller *domain.Identity, id int64, done bool) ([]domain.Todo, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	aff, err := s.todos.SetDoneOwned(ctx, caller.ID, id, done)
	if err != nil {
		return nil, storeErr("set todo done", err)
	}
	if aff == 0 {
		return nil, errNoSuchTask
	}
	return s.all(ctx, caller.ID)
}

func (s *todoService) List(ctx context.Context, caller *domain.Identity, filter domain.TodoFilter) ([]domain.Todo, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	todos, err := s.todos.ListByOwner(ctx, caller.ID, filter)
	return nonEmpty(todos, err, "list todos", "no tasks found")
}

func (s *todoService) all(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	todos, err := s.todos.ListByOwner(ctx, ownerID, domain.TodoFilterAll)
	if err != nil {
		return nil, storeErr("list todos", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

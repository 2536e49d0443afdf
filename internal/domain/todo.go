package domain

import (
	"fmt"
	"time"
)

// Todo is a task owned by exactly one user.
type Todo struct {
	ID        int64
	OwnerID   int64
	Task      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TodoFilter string

const (
	TodoFilterAll    TodoFilter = "all"
	TodoFilterDone   TodoFilter = "done"
	TodoFilterUndone TodoFilter = "undone"
)

// ParseTodoFilter maps a path segment to a filter. An empty value means all.
func ParseTodoFilter(raw string) (TodoFilter, error) {
	switch TodoFilter(raw) {
	case "", TodoFilterAll:
		return TodoFilterAll, nil
	case TodoFilterDone:
		return TodoFilterDone, nil
	case TodoFilterUndone:
		return TodoFilterUndone, nil
	}
	return "", fmt.Errorf("unknown todo filter %q", raw)
}

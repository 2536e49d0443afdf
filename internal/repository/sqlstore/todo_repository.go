package sqlstore

import (
	"context"
	"fmt"
	"time"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id {{pk}},
	owner_id INTEGER NOT NULL,
	task TEXT NOT NULL,
	done BOOLEAN NOT NULL DEFAULT FALSE,
	created_at {{timestamp}} NOT NULL,
	updated_at {{timestamp}} NOT NULL
)`

const createTodosOwnerIndex = `
CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id)`

type TodoRepository struct {
	db *DB
}

func NewTodoRepository(db *DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if err := r.db.createTable(ctx, createTodosTable, createTodosOwnerIndex); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	if err := r.db.ensureColumns(ctx, "todos",
		column{name: "done", ddl: `BOOLEAN NOT NULL DEFAULT FALSE`},
	); err != nil {
		return err
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	var id int64
	err := r.db.queryRow(ctx, `
INSERT INTO todos (owner_id, task, done, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`,
		todo.OwnerID,
		todo.Task,
		todo.Done,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, classifyWriteErr("insert todo", err)
	}
	todo.ID = id
	return id, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64, filter domain.TodoFilter) ([]domain.Todo, error) {
	query := `
SELECT id, owner_id, task, done, created_at, updated_at
FROM todos
WHERE owner_id = ?`
	args := []any{ownerID}

	switch filter {
	case domain.TodoFilterDone:
		query += ` AND done = ?`
		args = append(args, true)
	case domain.TodoFilterUndone:
		query += ` AND done = ?`
		args = append(args, false)
	}
	query += `
ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.ID, &todo.OwnerID, &todo.Task, &todo.Done, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) DeleteOwned(ctx context.Context, ownerID, id int64) (int64, error) {
	res, err := r.db.exec(ctx, `DELETE FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete todo: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("todo delete rows affected: %w", err)
	}
	return aff, nil
}

// SetDoneOwned only bumps updated_at when the flag actually changes, so
// repeating a toggle leaves the row untouched.
func (r *TodoRepository) SetDoneOwned(ctx context.Context, ownerID, id int64, done bool) (int64, error) {
	res, err := r.db.exec(ctx, `
UPDATE todos
SET done = ?, updated_at = CASE WHEN done = ? THEN updated_at ELSE ? END
WHERE id = ? AND owner_id = ?`,
		done,
		done,
		time.Now().UTC(),
		id,
		ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("update todo done: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("todo update rows affected: %w", err)
	}
	return aff, nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id {{pk}},
	username TEXT NOT NULL UNIQUE,
	email TEXT UNIQUE,
	api_key_hash TEXT NOT NULL UNIQUE,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at {{timestamp}} NOT NULL,
	updated_at {{timestamp}} NOT NULL
)`

const userColumns = `id, username, email, active, created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if err := r.db.createTable(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	// older tables predate email and the active flag
	if err := r.db.ensureColumns(ctx, "users",
		column{name: "email", ddl: `TEXT`},
		column{name: "active", ddl: `BOOLEAN NOT NULL DEFAULT TRUE`},
	); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, keyHash string) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Active = true

	var id int64
	err := r.db.queryRow(ctx, `
INSERT INTO users (username, email, api_key_hash, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`,
		user.Username,
		nullString(user.Email),
		keyHash,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, classifyWriteErr("insert user", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) CountActiveByKeyHash(ctx context.Context, keyHash string) (int, error) {
	var n int
	if err := r.db.queryRow(ctx, `
SELECT COUNT(*)
FROM users
WHERE api_key_hash = ? AND active = ?`,
		keyHash,
		true,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by key: %w", err)
	}
	return n, nil
}

func (r *UserRepository) GetActiveByKeyHash(ctx context.Context, keyHash string) (*domain.User, error) {
	row := r.db.queryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE api_key_hash = ? AND active = ?`,
		keyHash,
		true,
	)
	return scanUser(row)
}

func (r *UserRepository) Find(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.ID != nil {
		conditions = append(conditions, "id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Username != nil {
		conditions = append(conditions, "username = ?")
		args = append(args, *filter.Username)
	}
	if filter.Email != nil {
		conditions = append(conditions, "email = ?")
		args = append(args, *filter.Email)
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) (int64, error) {
	res, err := r.db.exec(ctx, `
UPDATE users
SET active = ?, updated_at = ?
WHERE id = ?`,
		active,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("update user active: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("user update rows affected: %w", err)
	}
	return aff, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user  domain.User
		email sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&email,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if email.Valid {
		user.Email = &email.String
	}
	return &user, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

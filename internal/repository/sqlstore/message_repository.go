package sqlstore

import (
	"context"
	"fmt"
	"time"

	"keyed-api/internal/domain"
	"keyed-api/internal/repository"
)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
	id {{pk}},
	src INTEGER NOT NULL,
	dst INTEGER NOT NULL,
	content TEXT NOT NULL,
	created_at {{timestamp}} NOT NULL
)`

const createMessagesSrcIndex = `
CREATE INDEX IF NOT EXISTS idx_messages_src ON messages(src)`

const createMessagesDstIndex = `
CREATE INDEX IF NOT EXISTS idx_messages_dst ON messages(dst)`

type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Init(ctx context.Context) error {
	if err := r.db.createTable(ctx, createMessagesTable, createMessagesSrcIndex, createMessagesDstIndex); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	msg.CreatedAt = time.Now().UTC()

	var id int64
	err := r.db.queryRow(ctx, `
INSERT INTO messages (src, dst, content, created_at)
VALUES (?, ?, ?, ?)
RETURNING id`,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, classifyWriteErr("insert message", err)
	}
	msg.ID = id
	return id, nil
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Message, error) {
	rows, err := r.db.query(ctx, `
SELECT id, src, dst, content, created_at
FROM messages
WHERE src = ? OR dst = ?
ORDER BY id DESC`,
		userID,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

package postgres

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, message.ConversationID, message.SenderID, message.Body).
		Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) ListRecent(ctx context.Context, conversationID int64, limit int) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	query := `
		SELECT id, conversation_id, sender_id, body, created_at FROM (
			SELECT id, conversation_id, sender_id, body, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, conversationID, limit)
	return messages, err
}

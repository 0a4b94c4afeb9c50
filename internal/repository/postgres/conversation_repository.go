package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	// Ensure user_low < user_high for the unique key
	low, high := domain.CanonicalPair(conversation.UserLow, conversation.UserHigh)

	query := `
		INSERT INTO conversations (listing_id, user_low, user_high)
		VALUES ($1, $2, $3)
		ON CONFLICT (listing_id, user_low, user_high) DO NOTHING
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, conversation.ListingID, low, high).
		Scan(&conversation.ID, &conversation.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConversationAlreadyExists
		}
		return err
	}

	conversation.UserLow = low
	conversation.UserHigh = high
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	var conversation domain.Conversation
	query := `SELECT id, listing_id, user_low, user_high, created_at FROM conversations WHERE id = $1`
	err := r.db.GetContext(ctx, &conversation, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetByParticipants(ctx context.Context, listingID int64, userLow, userHigh string) (*domain.Conversation, error) {
	userLow, userHigh = domain.CanonicalPair(userLow, userHigh)

	var conversation domain.Conversation
	query := `
		SELECT id, listing_id, user_low, user_high, created_at
		FROM conversations
		WHERE listing_id = $1 AND user_low = $2 AND user_high = $3
	`
	err := r.db.GetContext(ctx, &conversation, query, listingID, userLow, userHigh)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetUserConversations(ctx context.Context, userID string, limit, offset int) ([]*domain.Conversation, error) {
	conversations := []*domain.Conversation{}
	query := `
		SELECT id, listing_id, user_low, user_high, created_at
		FROM conversations
		WHERE (user_low = $1 OR user_high = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &conversations, query, userID, limit, offset)
	return conversations, err
}

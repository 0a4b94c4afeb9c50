package repository

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
)

type ConversationRepository interface {
	// Create inserts the conversation. It returns
	// domain.ErrConversationAlreadyExists when the canonical key is taken.
	Create(ctx context.Context, conversation *domain.Conversation) error
	GetByID(ctx context.Context, id int64) (*domain.Conversation, error)
	GetByParticipants(ctx context.Context, listingID int64, userLow, userHigh string) (*domain.Conversation, error)
	GetUserConversations(ctx context.Context, userID string, limit, offset int) ([]*domain.Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// ListRecent returns up to limit of the latest messages, oldest first.
	ListRecent(ctx context.Context, conversationID int64, limit int) ([]*domain.Message, error)
}

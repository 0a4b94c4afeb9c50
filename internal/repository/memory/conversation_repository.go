package memory

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

type conversationRepository struct {
	store *Store
}

func NewConversationRepository(store *Store) repository.ConversationRepository {
	return &conversationRepository{store: store}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	low, high := domain.CanonicalPair(conversation.UserLow, conversation.UserHigh)
	for _, c := range s.conversations {
		if c.ListingID == conversation.ListingID && c.UserLow == low && c.UserHigh == high {
			return domain.ErrConversationAlreadyExists
		}
	}

	s.nextConversationID++
	conversation.ID = s.nextConversationID
	conversation.UserLow = low
	conversation.UserHigh = high
	conversation.CreatedAt = s.now()
	out := *conversation
	s.conversations = append(s.conversations, &out)
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.conversations {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (r *conversationRepository) GetByParticipants(ctx context.Context, listingID int64, userLow, userHigh string) (*domain.Conversation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	low, high := domain.CanonicalPair(userLow, userHigh)
	for _, c := range s.conversations {
		if c.ListingID == listingID && c.UserLow == low && c.UserHigh == high {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (r *conversationRepository) GetUserConversations(ctx context.Context, userID string, limit, offset int) ([]*domain.Conversation, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversations := []*domain.Conversation{}
	skipped := 0
	for i := len(s.conversations) - 1; i >= 0; i-- {
		c := s.conversations[i]
		if !c.HasUser(userID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out := *c
		conversations = append(conversations, &out)
		if limit > 0 && len(conversations) == limit {
			break
		}
	}
	return conversations, nil
}

type messageRepository struct {
	store *Store
}

func NewMessageRepository(store *Store) repository.MessageRepository {
	return &messageRepository{store: store}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	message.ID = s.nextMessageID
	message.CreatedAt = s.now()
	out := *message
	s.messages = append(s.messages, &out)
	return nil
}

func (r *messageRepository) ListRecent(ctx context.Context, conversationID int64, limit int) ([]*domain.Message, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			matched = append(matched, m)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	messages := make([]*domain.Message, 0, len(matched))
	for _, m := range matched {
		out := *m
		messages = append(messages, &out)
	}
	return messages, nil
}

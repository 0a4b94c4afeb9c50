package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	listingRepo      repository.ListingRepository
	logger           *slog.Logger
}

func NewConversationUseCase(
	conversationRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	logger *slog.Logger,
) *ConversationUseCase {
	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		listingRepo:      listingRepo,
		logger:           logger,
	}
}

// ConversationView is a conversation as seen by one participant
type ConversationView struct {
	*domain.Conversation
	OtherUserID string `json:"other_user_id"`
}

// Resolve returns the conversation between initiator and counterpart about
// a listing, creating it on first contact. An empty counterpart means the
// listing owner.
func (uc *ConversationUseCase) Resolve(ctx context.Context, listingID int64, initiator, counterpart string) (*domain.Conversation, error) {
	if initiator == "" {
		return nil, domain.ErrUnauthenticated("start a conversation")
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		return nil, &domain.RetrievalError{Message: "could not load listing", Err: err}
	}

	if initiator == listing.OwnerID {
		return nil, &domain.PermissionError{Message: "you cannot message your own listing"}
	}
	if counterpart == "" {
		counterpart = listing.OwnerID
	}
	if initiator == counterpart {
		return nil, &domain.PermissionError{Message: "you cannot start a conversation with yourself"}
	}

	low, high := domain.CanonicalPair(initiator, counterpart)

	existing, err := uc.conversationRepo.GetByParticipants(ctx, listingID, low, high)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, &domain.RetrievalError{Message: "could not load conversation", Err: err}
	}

	conversation := &domain.Conversation{
		ListingID: listingID,
		UserLow:   low,
		UserHigh:  high,
	}
	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		if !errors.Is(err, domain.ErrConversationAlreadyExists) {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		// Lost the insert race: the row exists now
		existing, err := uc.conversationRepo.GetByParticipants(ctx, listingID, low, high)
		if err != nil {
			return nil, fmt.Errorf("failed to get conversation: %w", err)
		}
		return existing, nil
	}

	uc.logger.InfoContext(ctx, "conversation created",
		slog.Int64("conversation_id", conversation.ID),
		slog.Int64("listing_id", listingID),
	)
	return conversation, nil
}

// Get returns a conversation the caller takes part in
func (uc *ConversationUseCase) Get(ctx context.Context, userID string, id int64) (*domain.Conversation, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("read this conversation")
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return nil, err
		}
		return nil, &domain.RetrievalError{Message: "could not load conversation", Err: err}
	}

	if !conversation.HasUser(userID) {
		return nil, &domain.PermissionError{Message: "you are not part of this conversation"}
	}
	return conversation, nil
}

// ListMine returns the caller's conversations, newest first
func (uc *ConversationUseCase) ListMine(ctx context.Context, userID string, limit int) ([]ConversationView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("see your conversations")
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	conversations, err := uc.conversationRepo.GetUserConversations(ctx, userID, limit, 0)
	if err != nil {
		return nil, &domain.RetrievalError{Message: "could not load conversations", Err: err}
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, c := range conversations {
		other, _ := c.GetOtherUserID(userID)
		views = append(views, ConversationView{Conversation: c, OtherUserID: other})
	}
	return views, nil
}

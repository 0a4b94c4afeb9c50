package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

const (
	// HistoryLimit is how many of the latest messages an opened feed shows.
	HistoryLimit = 200
	MaxBodyRunes = 2000

	messagesTable   = "messages"
	conversationKey = "conversation_id"
)

// ConversationReader loads a conversation on behalf of a participant.
type ConversationReader interface {
	Get(ctx context.Context, userID string, id int64) (*domain.Conversation, error)
}

type ChatUseCase struct {
	conversations ConversationReader
	messageRepo   repository.MessageRepository
	notifier      realtime.Notifier
	logger        *slog.Logger
}

func NewChatUseCase(
	conversations ConversationReader,
	messageRepo repository.MessageRepository,
	notifier realtime.Notifier,
	logger *slog.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		conversations: conversations,
		messageRepo:   messageRepo,
		notifier:      notifier,
		logger:        logger,
	}
}

// MessagesChannel is the live channel carrying a conversation's inserts.
func MessagesChannel(conversationID int64) string {
	return "messages:" + strconv.FormatInt(conversationID, 10)
}

// History returns the latest messages of a conversation, oldest first
func (uc *ChatUseCase) History(ctx context.Context, userID string, conversationID int64) ([]*domain.Message, error) {
	if _, err := uc.conversations.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListRecent(ctx, conversationID, HistoryLimit)
	if err != nil {
		return nil, &domain.RetrievalError{Message: "could not load messages", Err: err}
	}
	return messages, nil
}

// Open starts a live feed for a conversation the caller takes part in.
// The subscription is set up before the history load so no insert falls
// between the two; overlaps are removed by message id.
func (uc *ChatUseCase) Open(ctx context.Context, userID string, conversationID int64) (*Feed, error) {
	if _, err := uc.conversations.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	feed := newFeed(conversationID, uc.logger)
	filter := realtime.Filter{
		Type:   realtime.EventInsert,
		Table:  messagesTable,
		Column: conversationKey,
		Value:  strconv.FormatInt(conversationID, 10),
	}

	sub, err := uc.notifier.Subscribe(ctx, MessagesChannel(conversationID), filter, feed.onEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to conversation: %w", err)
	}
	feed.sub = sub
	go feed.watch(sub.Lagged())

	history, err := uc.messageRepo.ListRecent(ctx, conversationID, HistoryLimit)
	if err != nil {
		_ = feed.Close()
		return nil, &domain.RetrievalError{Message: "could not load messages", Err: err}
	}
	feed.loadHistory(history)

	return feed, nil
}

// Send stores a message and announces it on the conversation channel.
// A blank body is ignored and returns (nil, nil).
func (uc *ChatUseCase) Send(ctx context.Context, conversationID int64, senderID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	if senderID == "" {
		return nil, domain.ErrUnauthenticated("send messages")
	}
	if utf8.RuneCountInString(body) > MaxBodyRunes {
		return nil, domain.NewValidationError("body", "message too long")
	}

	if _, err := uc.conversations.Get(ctx, senderID, conversationID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := uc.publish(ctx, message); err != nil {
		// The message is stored; readers pick it up on their next open.
		uc.logger.WarnContext(ctx, "failed to publish message",
			slog.Int64("conversation_id", conversationID),
			slog.Int64("message_id", message.ID),
			slog.Any("error", err),
		)
	}
	return message, nil
}

func (uc *ChatUseCase) publish(ctx context.Context, message *domain.Message) error {
	record, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return uc.notifier.Publish(ctx, MessagesChannel(message.ConversationID), realtime.Event{
		Type:   realtime.EventInsert,
		Table:  messagesTable,
		Keys:   map[string]string{conversationKey: strconv.FormatInt(message.ConversationID, 10)},
		Record: record,
	})
}

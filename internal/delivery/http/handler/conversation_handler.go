package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/usecase/chat"
	"github.com/gdugdh24/transitia-backend/internal/usecase/conversation"
	"github.com/gdugdh24/transitia-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

// HeartbeatInterval is how often an idle stream sends a ping event.
var HeartbeatInterval = 25 * time.Second

type ConversationHandler struct {
	conversationUseCase *conversation.ConversationUseCase
	chatUseCase         *chat.ChatUseCase
	logger              *slog.Logger
}

func NewConversationHandler(
	conversationUseCase *conversation.ConversationUseCase,
	chatUseCase *chat.ChatUseCase,
	logger *slog.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
		chatUseCase:         chatUseCase,
		logger:              logger,
	}
}

// SendMessageRequest represents a chat message
type SendMessageRequest struct {
	Body string `json:"body"`
}

// ConversationsResponse wraps the caller's conversations
type ConversationsResponse struct {
	Conversations []conversation.ConversationView `json:"conversations"`
}

// MessagesResponse wraps a conversation history
type MessagesResponse struct {
	Messages []*domain.Message `json:"messages"`
}

// List handles GET /conversations
// @Summary My conversations
// @Tags conversations
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max results"
// @Success 200 {object} ConversationsResponse
// @Failure 401 {object} ErrorResponse
// @Router /conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	views, err := h.conversationUseCase.ListMine(c.Request.Context(), currentUserID(c), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ConversationsResponse{Conversations: views})
}

// Messages handles GET /conversations/:id/messages
// @Summary Conversation history
// @Description Latest messages, oldest first
// @Tags conversations
// @Security BearerAuth
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} MessagesResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /conversations/{id}/messages [get]
func (h *ConversationHandler) Messages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	messages, err := h.chatUseCase.History(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessagesResponse{Messages: messages})
}

// Send handles POST /conversations/:id/messages
// @Summary Send message
// @Description A blank body is accepted and ignored (204)
// @Tags conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/messages [post]
func (h *ConversationHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.FromBindError(err))
		return
	}

	message, err := h.chatUseCase.Send(c.Request.Context(), id, currentUserID(c), req.Body)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if message == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Stream handles GET /conversations/:id/stream
// @Summary Live conversation
// @Description Server-sent events: one "history" event, then a "message" event per new message. The stream ends if the client falls behind; reconnecting replays history.
// @Tags conversations
// @Security BearerAuth
// @Produce text/event-stream
// @Param id path int true "Conversation ID"
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/stream [get]
func (h *ConversationHandler) Stream(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	feed, err := h.chatUseCase.Open(ctx, currentUserID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer func() {
		if err := feed.Close(); err != nil {
			h.logger.Warn("failed to close chat feed", slog.Int64("conversation_id", feed.ConversationID()), slog.Any("error", err))
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	history, updates := feed.Attach()
	c.SSEvent("history", MessagesResponse{Messages: history})
	c.Writer.Flush()

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case m, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("message", m)
			return true
		case <-feed.Lagged():
			// The client reconnects and replays history.
			h.logger.Warn("chat stream fell behind, closing", slog.Int64("conversation_id", feed.ConversationID()))
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

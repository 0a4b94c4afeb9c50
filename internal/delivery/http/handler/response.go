package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gdugdh24/transitia-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// currentUserID returns the authenticated user id, or "" for anonymous requests.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}

// respondError maps a use case error onto a status code and ErrorResponse.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		vErr *domain.ValidationError
		pErr *domain.PermissionError
		rErr *domain.RetrievalError
	)

	switch {
	case errors.As(err, &vErr):
		status := http.StatusBadRequest
		if vErr.Field == "profile" {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, ErrorResponse{Error: vErr.Message})
	case errors.As(err, &pErr):
		status := http.StatusForbidden
		if pErr.Unauthenticated {
			status = http.StatusUnauthorized
		}
		c.JSON(status, ErrorResponse{Error: pErr.Message})
	case errors.Is(err, domain.ErrOnboardingRequired):
		c.JSON(http.StatusPreconditionRequired, ErrorResponse{Error: "complete your profile first"})
	case errors.As(err, &rErr):
		logger.ErrorContext(c.Request.Context(), "retrieval failed", slog.String("path", c.FullPath()), slog.Any("error", err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: rErr.Message})
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrConversationNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMagicLinkInvalid),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		logger.ErrorContext(c.Request.Context(), "request failed", slog.String("path", c.FullPath()), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/transitia-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/transitia-backend/internal/usecase/auth"
	"github.com/gdugdh24/transitia-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
	logger      *slog.Logger
}

func NewAuthHandler(authUseCase *auth.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// MagicLinkRequest represents a sign-in link request
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required"`
}

// VerifyRequest carries the token from a sign-in link
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse is the response structure
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      interface{} `json:"user"`
	IsNewUser bool        `json:"is_new_user"`
}

// RequestMagicLink handles POST /auth/magic-link
// @Summary Request sign-in link
// @Description Email a one-time sign-in link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body MagicLinkRequest true "Email address"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.FromBindError(err))
		return
	}

	if err := h.authUseCase.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{
		Message: "check your inbox",
	})
}

// Verify handles POST /auth/verify
// @Summary Verify sign-in link
// @Description Exchange a sign-in token for a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Token from the link"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.FromBindError(err))
		return
	}

	result, err := h.authUseCase.VerifyMagicLink(c.Request.Context(), req.Token, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      result.User,
		IsNewUser: result.IsNewUser,
	})
}

// Logout handles POST /auth/logout
// @Summary Logout
// @Description Logout user and invalidate session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUseCase.SignOut(c.Request.Context(), c.GetString(middleware.TokenKey)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "logged out successfully",
	})
}

// Me handles GET /auth/me
// @Summary Get current user
// @Description Get authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

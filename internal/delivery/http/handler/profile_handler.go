package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/transitia-backend/internal/usecase/profile"
	"github.com/gdugdh24/transitia-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
	logger         *slog.Logger
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
		logger:         logger,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Get current user's profile with onboarding progress
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} profile.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	resp, err := h.profileUseCase.GetMyProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpsertMyProfile handles PUT /profile/me
// @Summary Save my profile
// @Description Complete onboarding or edit the current user's profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpsertProfileRequest true "Profile data"
// @Success 200 {object} profile.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpsertMyProfile(c *gin.Context) {
	var req profile.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.FromBindError(err))
		return
	}

	resp, err := h.profileUseCase.UpsertProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

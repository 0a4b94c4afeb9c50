package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/usecase/conversation"
	"github.com/gdugdh24/transitia-backend/internal/usecase/listing"
	"github.com/gdugdh24/transitia-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase      *listing.ListingUseCase
	conversationUseCase *conversation.ConversationUseCase
	logger              *slog.Logger
}

func NewListingHandler(
	listingUseCase *listing.ListingUseCase,
	conversationUseCase *conversation.ConversationUseCase,
	logger *slog.Logger,
) *ListingHandler {
	return &ListingHandler{
		listingUseCase:      listingUseCase,
		conversationUseCase: conversationUseCase,
		logger:              logger,
	}
}

// ListingsResponse wraps a page of listings
type ListingsResponse struct {
	Listings []*domain.Listing `json:"listings"`
}

// MatchesResponse wraps ranked listings
type MatchesResponse struct {
	Matches []domain.MatchCard `json:"matches"`
}

// DraftsResponse wraps listing drafts
type DraftsResponse struct {
	Drafts []domain.ListingDraft `json:"drafts"`
}

// StartConversationRequest names the other participant. Empty means the listing owner.
type StartConversationRequest struct {
	With string `json:"with"`
}

// List handles GET /listings
// @Summary Browse listings
// @Description Listings filtered by region, city and role, newest first
// @Tags listings
// @Produce json
// @Param region query string false "Region"
// @Param city query string false "City"
// @Param role query string false "host or seeker"
// @Param limit query int false "Max results (default 50, max 100)"
// @Success 200 {object} ListingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	listings, err := h.listingUseCase.ListListings(
		c.Request.Context(),
		c.Query("region"),
		c.Query("city"),
		domain.Role(c.Query("role")),
		queryInt(c, "limit"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ListingsResponse{Listings: listings})
}

// Get handles GET /listings/:id
// @Summary Get listing
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} domain.Listing
// @Failure 404 {object} ErrorResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	l, err := h.listingUseCase.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// Create handles POST /listings
// @Summary Publish listing
// @Tags listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body listing.CreateListingRequest true "Listing data"
// @Success 201 {object} domain.Listing
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	var req listing.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.FromBindError(err))
		return
	}

	created, err := h.listingUseCase.CreateListing(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Matches handles GET /listings/matches
// @Summary Ranked listings
// @Description Listings scored against the caller's profile, best first
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Param role query string false "host or seeker"
// @Param region query string false "Region, defaults to the profile's"
// @Param city query string false "City, defaults to the profile's"
// @Param limit query int false "Max candidates"
// @Success 200 {object} MatchesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 428 {object} ErrorResponse
// @Router /listings/matches [get]
func (h *ListingHandler) Matches(c *gin.Context) {
	cards, err := h.listingUseCase.RankedListings(
		c.Request.Context(),
		currentUserID(c),
		domain.Role(c.Query("role")),
		c.Query("region"),
		c.Query("city"),
		queryInt(c, "limit"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MatchesResponse{Matches: cards})
}

// Suggest handles POST /listings/suggestions
// @Summary Draft listing text
// @Tags listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body listing.SuggestRequest true "Listing facts"
// @Success 200 {object} DraftsResponse
// @Failure 400 {object} ErrorResponse
// @Router /listings/suggestions [post]
func (h *ListingHandler) Suggest(c *gin.Context) {
	var req listing.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, validation.FromBindError(err))
		return
	}

	drafts, err := h.listingUseCase.SuggestListing(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, DraftsResponse{Drafts: drafts})
}

// StartConversation handles POST /listings/:id/conversation
// @Summary Open conversation about a listing
// @Description Returns the existing conversation or creates it
// @Tags conversations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Param request body StartConversationRequest false "Other participant"
// @Success 200 {object} domain.Conversation
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{id}/conversation [post]
func (h *ListingHandler) StartConversation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req StartConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, h.logger, validation.FromBindError(err))
			return
		}
	}

	conv, err := h.conversationUseCase.Resolve(c.Request.Context(), id, currentUserID(c), req.With)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

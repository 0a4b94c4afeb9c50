package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/gdugdh24/transitia-backend/internal/usecase/match"
	"github.com/gdugdh24/transitia-backend/internal/validation"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100

	minTitleLength       = 8
	minDescriptionLength = 20
)

// ProfileGate resolves the caller's profile or reports that onboarding is pending.
type ProfileGate interface {
	RequireProfile(ctx context.Context, userID string) (*domain.Profile, error)
	HasProfile(ctx context.Context, userID string) (bool, error)
}

// Drafter writes listing drafts. A nil Drafter means templated drafts only.
type Drafter interface {
	GenerateListingDrafts(ctx context.Context, p gemini.DraftPrompt) ([]domain.ListingDraft, error)
}

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	profiles    ProfileGate
	drafter     Drafter
	validator   *validation.Validator
	logger      *slog.Logger
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	profiles ProfileGate,
	drafter Drafter,
	logger *slog.Logger,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		profiles:    profiles,
		drafter:     drafter,
		validator:   validation.New(),
		logger:      logger,
	}
}

// CreateListingRequest represents a new host offer or seeker request
type CreateListingRequest struct {
	Role        domain.Role         `json:"role" binding:"required,oneof=host seeker"`
	Region      string              `json:"region" binding:"required"`
	City        string              `json:"city" binding:"required"`
	Duration    string              `json:"duration" binding:"required,oneof='1 mese' '1-2 mesi' '3-6 mesi'"`
	Budget      *string             `json:"budget" binding:"omitempty,oneof=€300-500 €500-700 €700-900 €900+"`
	HasChildren domain.ChildrenFlag `json:"has_children" binding:"omitempty,oneof=sì no"`
	Vibe        domain.Vibe         `json:"vibe" binding:"omitempty,oneof=tranquillo pratico collaborativo"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
}

// SuggestRequest carries the listing facts the drafts are written around
type SuggestRequest struct {
	Role     domain.Role `json:"role" binding:"required,oneof=host seeker"`
	City     string      `json:"city" binding:"required"`
	Duration string      `json:"duration" binding:"required"`
	Vibe     domain.Vibe `json:"vibe" binding:"omitempty,oneof=tranquillo pratico collaborativo"`
}

// ListListings returns listings matching the filters, newest first
func (uc *ListingUseCase) ListListings(ctx context.Context, region, city string, role domain.Role, limit int) ([]*domain.Listing, error) {
	if role != "" && !role.Valid() {
		return nil, domain.NewValidationError("role", "role must be host or seeker")
	}

	listings, err := uc.listingRepo.List(ctx, domain.ListingFilter{
		Region: strings.TrimSpace(region),
		City:   strings.TrimSpace(city),
		Role:   role,
		Limit:  clampLimit(limit),
	})
	if err != nil {
		return nil, &domain.RetrievalError{Message: "could not load listings", Err: err}
	}
	return listings, nil
}

// GetListing returns a single listing by id
func (uc *ListingUseCase) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		return nil, &domain.RetrievalError{Message: "could not load listing", Err: err}
	}
	return listing, nil
}

// CreateListing publishes a listing owned by ownerID
func (uc *ListingUseCase) CreateListing(ctx context.Context, ownerID string, req *CreateListingRequest) (*domain.Listing, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated("publish a listing")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Region = strings.TrimSpace(req.Region)
	req.City = strings.TrimSpace(req.City)

	if utf8.RuneCountInString(req.Title) < minTitleLength {
		return nil, domain.NewValidationError("title", "title too short")
	}
	if utf8.RuneCountInString(req.Description) < minDescriptionLength {
		return nil, domain.NewValidationError("description", "description too short")
	}

	hasProfile, err := uc.profiles.HasProfile(ctx, ownerID)
	if err != nil {
		return nil, &domain.RetrievalError{Message: "could not load your profile", Err: err}
	}
	if !hasProfile {
		return nil, domain.NewValidationError("profile", "complete your profile first")
	}

	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}
	if !domain.KnownCity(req.Region, req.City) {
		return nil, domain.NewValidationError("city", "unknown region or city")
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		Role:        req.Role,
		Region:      req.Region,
		City:        req.City,
		Duration:    req.Duration,
		Budget:      req.Budget,
		HasChildren: req.HasChildren,
		Vibe:        req.Vibe,
		Title:       req.Title,
		Description: req.Description,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	uc.logger.InfoContext(ctx, "listing created",
		slog.Int64("listing_id", listing.ID),
		slog.String("role", string(listing.Role)),
		slog.String("city", listing.City),
	)
	return listing, nil
}

// RankedListings returns match cards for the caller, best score first.
// Region and city default to the caller's profile area; picking another
// region without a city selects that region's first city.
func (uc *ListingUseCase) RankedListings(ctx context.Context, userID string, role domain.Role, region, city string, limit int) ([]domain.MatchCard, error) {
	profile, err := uc.profiles.RequireProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	region = strings.TrimSpace(region)
	city = strings.TrimSpace(city)
	if region == "" {
		region = profile.Region
	}
	if city == "" {
		if region == profile.Region {
			city = profile.City
		} else {
			city = domain.DefaultCity(region)
		}
	}

	listings, err := uc.ListListings(ctx, region, city, role, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.OwnerID == userID {
			continue
		}
		candidates = append(candidates, l)
	}

	return match.Rank(profile, candidates), nil
}

// SuggestListing returns title/description drafts for a new listing
func (uc *ListingUseCase) SuggestListing(ctx context.Context, userID string, req *SuggestRequest) ([]domain.ListingDraft, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("get listing suggestions")
	}
	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}

	prompt := gemini.DraftPrompt{
		Role:     req.Role,
		City:     strings.TrimSpace(req.City),
		Duration: strings.TrimSpace(req.Duration),
		Vibe:     req.Vibe,
	}

	if uc.drafter != nil {
		drafts, err := uc.drafter.GenerateListingDrafts(ctx, prompt)
		if err == nil && len(drafts) > 0 {
			return drafts, nil
		}
		uc.logger.WarnContext(ctx, "listing drafts unavailable, using templates", slog.Any("error", err))
	}

	return FallbackDrafts(prompt), nil
}

// FallbackDrafts builds templated drafts used when no model is reachable.
func FallbackDrafts(p gemini.DraftPrompt) []domain.ListingDraft {
	vibe := p.Vibe
	if vibe == "" {
		vibe = domain.VibePractical
	}

	if p.Role == domain.RoleSeeker {
		return []domain.ListingDraft{
			{
				Title:       fmt.Sprintf("Cerco soluzione a %s per %s", p.City, p.Duration),
				Description: fmt.Sprintf("Sto attraversando una fase di transizione e cerco una sistemazione temporanea a %s. Clima %s, spese divise in modo chiaro.", p.City, vibe),
			},
			{
				Title:       fmt.Sprintf("Cerco condivisione spese a %s", p.City),
				Description: fmt.Sprintf("Soluzione ponte per %s. Priorità: rispetto dei ritmi, regole semplici e comunicazione tranquilla.", p.Duration),
			},
			{
				Title:       fmt.Sprintf("Cerco stanza temporanea, %s", p.Duration),
				Description: fmt.Sprintf("Persona affidabile, abitudini regolari. Cerco una convivenza %s e accordi chiari fin dall'inizio.", vibe),
			},
		}
	}

	return []domain.ListingDraft{
		{
			Title:       fmt.Sprintf("Posso ospitare a %s per %s", p.City, p.Duration),
			Description: fmt.Sprintf("Casa già avviata a %s. Offro una soluzione temporanea con spese chiare e un clima %s.", p.City, vibe),
		},
		{
			Title:       fmt.Sprintf("Ospitalità temporanea a %s", p.City),
			Description: fmt.Sprintf("Disponibile per %s. Preferisco accordi semplici, rispetto reciproco e comunicazione diretta.", p.Duration),
		},
		{
			Title:       fmt.Sprintf("Condivisione casa, %s", p.Duration),
			Description: fmt.Sprintf("Ambiente %s e regole condivise. Ideale come soluzione ponte durante un cambiamento.", vibe),
		},
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/gdugdh24/transitia-backend/internal/validation"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	validator   *validation.Validator
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		validator:   validation.New(),
	}
}

// UpsertProfileRequest represents onboarding and later profile edits
type UpsertProfileRequest struct {
	DisplayName *string             `json:"display_name" binding:"omitempty,min=2,max=100"`
	Region      string              `json:"region" binding:"required"`
	City        string              `json:"city" binding:"required"`
	HasChildren domain.ChildrenFlag `json:"has_children" binding:"omitempty,oneof=sì no"`
	Vibe        domain.Vibe         `json:"vibe" binding:"omitempty,oneof=tranquillo pratico collaborativo"`
}

// ProfileResponse represents profile response with onboarding progress
type ProfileResponse struct {
	*domain.Profile
	Completion int `json:"completion"`
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("view your profile")
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{Profile: profile, Completion: Completion(profile)}, nil
}

// UpsertProfile creates the caller's profile (onboarding) or replaces it
func (uc *ProfileUseCase) UpsertProfile(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("complete your profile")
	}

	req.Region = strings.TrimSpace(req.Region)
	req.City = strings.TrimSpace(req.City)
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		req.DisplayName = &name
		if name == "" {
			req.DisplayName = nil
		}
	}

	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}
	if !domain.KnownCity(req.Region, req.City) {
		return nil, domain.NewValidationError("city", "unknown region or city")
	}

	profile := &domain.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Region:      req.Region,
		City:        req.City,
		HasChildren: req.HasChildren,
		Vibe:        req.Vibe,
	}

	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return &ProfileResponse{Profile: profile, Completion: Completion(profile)}, nil
}

// RequireProfile is the onboarding gate: it returns the caller's profile or
// domain.ErrOnboardingRequired when none is stored yet.
func (uc *ProfileUseCase) RequireProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("see personalized listings")
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrOnboardingRequired
		}
		return nil, &domain.RetrievalError{Message: "could not load your profile", Err: err}
	}
	return profile, nil
}

// HasProfile reports whether userID completed onboarding.
func (uc *ProfileUseCase) HasProfile(ctx context.Context, userID string) (bool, error) {
	_, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		return false, nil
	}
	return false, err
}

// Completion returns onboarding progress in percent
func Completion(p *domain.Profile) int {
	if p == nil {
		return 0
	}

	score := 10
	if p.Region != "" && p.City != "" {
		score += 25
	}
	if p.Vibe != "" {
		score += 25
	}
	if p.HasChildren != "" {
		score += 20
	}
	if p.DisplayName != nil && *p.DisplayName != "" {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

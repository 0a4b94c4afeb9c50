package repository

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
)

type ProfileRepository interface {
	// Upsert inserts the profile or replaces the owner's existing one.
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

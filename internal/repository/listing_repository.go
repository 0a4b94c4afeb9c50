package repository

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	// List returns listings matching filter, newest first.
	List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error)
}

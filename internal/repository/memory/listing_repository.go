package memory

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

type listingRepository struct {
	store *Store
}

func NewListingRepository(store *Store) repository.ListingRepository {
	return &listingRepository{store: store}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListingID++
	listing.ID = s.nextListingID
	listing.CreatedAt = s.now()
	out := *listing
	s.listings = append(s.listings, &out)
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == id {
			out := *l
			return &out, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (r *listingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := []*domain.Listing{}
	// Newest first: insertion order is creation order
	for i := len(s.listings) - 1; i >= 0; i-- {
		l := s.listings[i]
		if filter.Region != "" && l.Region != filter.Region {
			continue
		}
		if filter.City != "" && l.City != filter.City {
			continue
		}
		if filter.Role != "" && l.Role != filter.Role {
			continue
		}
		out := *l
		listings = append(listings, &out)
		if filter.Limit > 0 && len(listings) == filter.Limit {
			break
		}
	}
	return listings, nil
}

package memory

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

type profileRepository struct {
	store *Store
}

func NewProfileRepository(store *Store) repository.ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	out := *profile
	s.profiles[profile.UserID] = &out
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

package memory

import (
	"context"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

type magicLink struct {
	email     string
	expiresAt time.Time
}

type magicLinkRepository struct {
	store *Store
}

func NewMagicLinkRepository(store *Store) repository.MagicLinkRepository {
	return &magicLinkRepository{store: store}
}

func (r *magicLinkRepository) Save(ctx context.Context, tokenHash, email string, ttl time.Duration) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.magicLinks[tokenHash] = magicLink{email: email, expiresAt: s.now().Add(ttl)}
	return nil
}

func (r *magicLinkRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.magicLinks[tokenHash]
	if !ok {
		return "", domain.ErrMagicLinkInvalid
	}
	delete(s.magicLinks, tokenHash)
	if !s.now().Before(link.expiresAt) {
		return "", domain.ErrMagicLinkInvalid
	}
	return link.email, nil
}

package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// MagicLinkRepository keeps pending sign-in tokens until they are used or expire.
type MagicLinkRepository interface {
	Save(ctx context.Context, tokenHash, email string, ttl time.Duration) error
	// Consume returns the email bound to tokenHash and deletes the entry.
	// It returns domain.ErrMagicLinkInvalid when nothing is stored.
	Consume(ctx context.Context, tokenHash string) (string, error)
}

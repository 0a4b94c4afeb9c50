// Package redis stores short-lived auth state in Redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const magicLinkPrefix = "transitia:magic-link:"

type magicLinkRepository struct {
	client *redis.Client
}

func NewMagicLinkRepository(client *redis.Client) repository.MagicLinkRepository {
	return &magicLinkRepository{client: client}
}

func (r *magicLinkRepository) Save(ctx context.Context, tokenHash, email string, ttl time.Duration) error {
	return r.client.Set(ctx, magicLinkPrefix+tokenHash, email, ttl).Err()
}

func (r *magicLinkRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	email, err := r.client.GetDel(ctx, magicLinkPrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrMagicLinkInvalid
		}
		return "", err
	}
	return email, nil
}

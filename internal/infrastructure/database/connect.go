package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// NewPostgresDB opens the sqlx pool backing users, sessions, profiles,
// listings and chat.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := ping(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres %s@%s:%d unreachable: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// NewRedisClient connects to the Redis instance holding magic links and
// carrying realtime pub/sub traffic.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.GetAddr(),
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: "transitia",
		PoolSize:    32,
		DialTimeout: pingTimeout,
	})

	err := ping(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.GetAddr(), err)
	}
	return client, nil
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

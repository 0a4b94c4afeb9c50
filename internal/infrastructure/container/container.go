package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/config"
	deliveryhttp "github.com/gdugdh24/transitia-backend/internal/delivery/http"
	"github.com/gdugdh24/transitia-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/transitia-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/database"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/server"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/gdugdh24/transitia-backend/internal/repository/memory"
	"github.com/gdugdh24/transitia-backend/internal/repository/postgres"
	redisrepo "github.com/gdugdh24/transitia-backend/internal/repository/redis"
	"github.com/gdugdh24/transitia-backend/internal/usecase/auth"
	"github.com/gdugdh24/transitia-backend/internal/usecase/chat"
	"github.com/gdugdh24/transitia-backend/internal/usecase/conversation"
	"github.com/gdugdh24/transitia-backend/internal/usecase/listing"
	"github.com/gdugdh24/transitia-backend/internal/usecase/profile"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sqlx.DB
	Redis    *redis.Client
	Gemini   *gemini.GeminiClient
	Notifier realtime.Notifier
	Auth     *auth.AuthUseCase
	Handler  http.Handler
	Server   *server.Server

	stopSessionLog func()
}

type repositories struct {
	users         repository.UserRepository
	sessions      repository.SessionRepository
	magicLinks    repository.MagicLinkRepository
	profiles      repository.ProfileRepository
	listings      repository.ListingRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
}

type options struct {
	mailer auth.Mailer
	seed   bool
}

type Option func(*options)

// WithMailer replaces the log mailer used to deliver sign-in links.
func WithMailer(m auth.Mailer) Option {
	return func(o *options) { o.mailer = m }
}

// WithoutSeed starts an in-memory store empty instead of with demo listings.
func WithoutSeed() Option {
	return func(o *options) { o.seed = false }
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	o := options{mailer: auth.NewLogMailer(logger), seed: true}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Logger: logger}

	var repos repositories
	if cfg.Storage.InMemory() {
		store := memory.NewStore()
		if o.seed {
			memory.SeedDemo(store)
		}
		repos = repositories{
			users:         memory.NewUserRepository(store),
			sessions:      memory.NewSessionRepository(store),
			magicLinks:    memory.NewMagicLinkRepository(store),
			profiles:      memory.NewProfileRepository(store),
			listings:      memory.NewListingRepository(store),
			conversations: memory.NewConversationRepository(store),
			messages:      memory.NewMessageRepository(store),
		}
		c.Notifier = realtime.NewHub(logger)
		logger.Info("using in-memory storage")
	} else {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db

		redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient

		repos = repositories{
			users:         postgres.NewUserRepository(db),
			sessions:      postgres.NewSessionRepository(db),
			magicLinks:    redisrepo.NewMagicLinkRepository(redisClient),
			profiles:      postgres.NewProfileRepository(db),
			listings:      postgres.NewListingRepository(db),
			conversations: postgres.NewConversationRepository(db),
			messages:      postgres.NewMessageRepository(db),
		}
		c.Notifier = realtime.NewRedisNotifier(redisClient, logger)
	}

	var drafter listing.Drafter
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			// Drafts fall back to templates
			logger.Warn("gemini client unavailable", slog.Any("error", err))
		} else {
			c.Gemini = geminiClient
			drafter = geminiClient
		}
	}

	// Initialize use cases
	c.Auth = auth.NewAuthUseCase(
		repos.users,
		repos.sessions,
		repos.magicLinks,
		o.mailer,
		auth.Config{
			JWTSecret:   cfg.JWT.Secret,
			SessionTTL:  time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
			LinkBaseURL: cfg.MagicLink.BaseURL,
			LinkTTL:     cfg.MagicLink.TTL,
		},
		logger,
	)
	c.stopSessionLog = c.Auth.OnSessionChange(func(change auth.SessionChange) {
		logger.Debug("session changed", slog.String("event", string(change.Event)), slog.String("user_id", change.UserID))
	})

	profileUseCase := profile.NewProfileUseCase(repos.profiles)
	listingUseCase := listing.NewListingUseCase(repos.listings, profileUseCase, drafter, logger)
	conversationUseCase := conversation.NewConversationUseCase(repos.conversations, repos.listings, logger)
	chatUseCase := chat.NewChatUseCase(conversationUseCase, repos.messages, c.Notifier, logger)

	// Initialize handlers
	router := deliveryhttp.NewRouter(
		handler.NewAuthHandler(c.Auth, logger),
		handler.NewProfileHandler(profileUseCase, logger),
		handler.NewListingHandler(listingUseCase, conversationUseCase, logger),
		handler.NewConversationHandler(conversationUseCase, chatUseCase, logger),
		middleware.NewAuthMiddleware(c.Auth),
		logger,
	)

	c.Handler = router.Setup()
	c.Server = server.NewServer(&cfg.Server, &cfg.CORS, c.Handler, logger)

	return c, nil
}

// RunSessionCleanup purges expired sessions every interval until ctx ends.
func (c *Container) RunSessionCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := c.Auth.PurgeExpiredSessions(ctx)
			if err != nil {
				c.Logger.Warn("session cleanup failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				c.Logger.Info("expired sessions removed", slog.Int64("count", n))
			}
		}
	}
}

// Close closes all connections
func (c *Container) Close() error {
	if c.stopSessionLog != nil {
		c.stopSessionLog()
	}
	if hub, ok := c.Notifier.(*realtime.Hub); ok {
		hub.Close()
	}

	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.Logger.Warn("error closing gemini client", slog.Any("error", err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", slog.Any("error", err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}

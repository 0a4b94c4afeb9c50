package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/transitia-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/transitia-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler         *handler.AuthHandler
	profileHandler      *handler.ProfileHandler
	listingHandler      *handler.ListingHandler
	conversationHandler *handler.ConversationHandler
	authMiddleware      *middleware.AuthMiddleware
	logger              *slog.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	listingHandler *handler.ListingHandler,
	conversationHandler *handler.ConversationHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *slog.Logger,
) *Router {
	return &Router{
		authHandler:         authHandler,
		profileHandler:      profileHandler,
		listingHandler:      listingHandler,
		conversationHandler: conversationHandler,
		authMiddleware:      authMiddleware,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	validation.UseJSONNames()

	router := gin.New()
	router.Use(gin.Recovery(), r.requestLogger())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler)
		v1.GET("/catalog/regions", handler.Regions)

		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/magic-link", r.authHandler.RequestMagicLink)
			auth.POST("/verify", r.authHandler.Verify)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Listing browsing is public
		listings := v1.Group("/listings")
		{
			listings.GET("", r.listingHandler.List)
			listings.GET("/matches", r.authMiddleware.RequireAuth(), r.listingHandler.Matches)
			listings.GET("/:id", r.listingHandler.Get)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpsertMyProfile)
			}

			protected.POST("/listings", r.listingHandler.Create)
			protected.POST("/listings/suggestions", r.listingHandler.Suggest)
			protected.POST("/listings/:id/conversation", r.listingHandler.StartConversation)

			conversations := protected.Group("/conversations")
			{
				conversations.GET("", r.conversationHandler.List)
				conversations.GET("/:id/messages", r.conversationHandler.Messages)
				conversations.POST("/:id/messages", r.conversationHandler.Send)
				conversations.GET("/:id/stream", r.conversationHandler.Stream)
			}
		}
	}

	return router
}

// requestLogger writes one structured access log line per request.
func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		r.logger.Log(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey holds the authenticated user id in the gin context.
	UserIDKey = "user_id"
	// TokenKey holds the raw bearer token in the gin context.
	TokenKey = "token"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid session with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		userID, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c.Request); token != "" {
			if userID, err := m.verifier.VerifyToken(c.Request.Context(), token); err == nil {
				c.Set(UserIDKey, userID)
				c.Set(TokenKey, token)
			}
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header. Browsers
// cannot set headers on EventSource, so the access_token query parameter is
// accepted as well.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return r.URL.Query().Get("access_token")
}

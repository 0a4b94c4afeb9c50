package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// SessionEvent tells session-change listeners what happened.
type SessionEvent string

const (
	SignedIn  SessionEvent = "signed_in"
	SignedOut SessionEvent = "signed_out"
)

// SessionChange is delivered to every OnSessionChange listener.
type SessionChange struct {
	Event  SessionEvent
	UserID string
}

// Mailer delivers sign-in links.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

type Config struct {
	JWTSecret   string
	SessionTTL  time.Duration
	LinkBaseURL string
	LinkTTL     time.Duration
}

type AuthUseCase struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	magicLinkRepo repository.MagicLinkRepository
	mailer        Mailer
	cfg           Config
	logger        *slog.Logger
	now           func() time.Time

	mu        sync.Mutex
	listeners map[int]func(SessionChange)
	nextID    int
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	magicLinkRepo repository.MagicLinkRepository,
	mailer Mailer,
	cfg Config,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		magicLinkRepo: magicLinkRepo,
		mailer:        mailer,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
		listeners:     make(map[int]func(SessionChange)),
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

// RequestMagicLink emails a one-time sign-in link to email
func (uc *AuthUseCase) RequestMagicLink(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := uc.magicLinkRepo.Save(ctx, hashToken(token), email, uc.cfg.LinkTTL); err != nil {
		return fmt.Errorf("failed to store magic link: %w", err)
	}

	link := uc.cfg.LinkBaseURL + "/auth/callback?token=" + url.QueryEscape(token)
	if err := uc.mailer.SendMagicLink(ctx, email, link); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}
	return nil
}

// VerifyMagicLink consumes a sign-in token and opens a session
func (uc *AuthUseCase) VerifyMagicLink(ctx context.Context, token, deviceInfo, ipAddress string) (*AuthResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMagicLinkInvalid
	}

	email, err := uc.magicLinkRepo.Consume(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrMagicLinkInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to consume magic link: %w", err)
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	isNewUser := false

	if errors.Is(err, domain.ErrUserNotFound) {
		user = &domain.User{ID: uuid.NewString(), Email: email}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		isNewUser = true
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	jwtToken, expiresAt, err := uc.createSession(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	uc.logger.InfoContext(ctx, "user signed in", slog.String("user_id", user.ID), slog.Bool("new_user", isNewUser))
	uc.notify(SessionChange{Event: SignedIn, UserID: user.ID})

	return &AuthResponse{
		Token:     jwtToken,
		ExpiresAt: expiresAt,
		User:      user,
		IsNewUser: isNewUser,
	}, nil
}

// createSession creates a new session and returns JWT token
func (uc *AuthUseCase) createSession(ctx context.Context, userID, deviceInfo, ipAddress string) (string, time.Time, error) {
	now := uc.now()
	expiresAt := now.Add(uc.cfg.SessionTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString([]byte(uc.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	session := &domain.Session{
		UserID:     userID,
		Token:      hashToken(tokenString),
		DeviceInfo: optional(deviceInfo),
		IPAddress:  optional(ipAddress),
		ExpiresAt:  expiresAt,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyToken verifies JWT token and returns user ID
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(uc.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))

	if err != nil || !token.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}

	// Verify session exists
	session, err := uc.sessionRepo.GetByToken(ctx, hashToken(tokenString))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", err
		}
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	if uc.now().After(session.ExpiresAt) {
		return "", domain.ErrSessionExpired
	}
	if session.UserID != claims.Subject {
		return "", domain.ErrInvalidToken
	}

	return claims.Subject, nil
}

// GetUser returns the signed-in user's account
func (uc *AuthUseCase) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated("view your account")
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// SignOut deletes the session behind tokenString
func (uc *AuthUseCase) SignOut(ctx context.Context, tokenString string) error {
	hashed := hashToken(tokenString)
	session, err := uc.sessionRepo.GetByToken(ctx, hashed)
	if err != nil {
		return err
	}
	if err := uc.sessionRepo.DeleteByToken(ctx, hashed); err != nil {
		return err
	}

	uc.notify(SessionChange{Event: SignedOut, UserID: session.UserID})
	return nil
}

// PurgeExpiredSessions removes sessions past their expiry.
func (uc *AuthUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := uc.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}

// OnSessionChange registers fn for sign-in and sign-out events. The returned
// func removes it. Listeners run synchronously on the signing goroutine.
func (uc *AuthUseCase) OnSessionChange(fn func(SessionChange)) (cancel func()) {
	uc.mu.Lock()
	id := uc.nextID
	uc.nextID++
	uc.listeners[id] = fn
	uc.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			uc.mu.Lock()
			delete(uc.listeners, id)
			uc.mu.Unlock()
		})
	}
}

func (uc *AuthUseCase) notify(change SessionChange) {
	uc.mu.Lock()
	fns := make([]func(SessionChange), 0, len(uc.listeners))
	for _, fn := range uc.listeners {
		fns = append(fns, fn)
	}
	uc.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", "email must be a valid email")
	}
	return email, nil
}

// hashToken creates a BLAKE2b-256 hash of token for storage
func hashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package auth

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *captureMailer) SendMagicLink(ctx context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[email] = link
	return nil
}

func (m *captureMailer) token(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[email]
	require.True(t, ok, "no link sent to %s", email)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", u.Path)
	return u.Query().Get("token")
}

func newTestUseCase() (*AuthUseCase, *captureMailer, *memory.Store) {
	store := memory.NewStore()
	mailer := &captureMailer{links: make(map[string]string)}
	uc := NewAuthUseCase(
		memory.NewUserRepository(store),
		memory.NewSessionRepository(store),
		memory.NewMagicLinkRepository(store),
		mailer,
		Config{
			JWTSecret:   "test-secret-that-is-long-enough-123456",
			SessionTTL:  7 * 24 * time.Hour,
			LinkBaseURL: "http://localhost:3000",
			LinkTTL:     15 * time.Minute,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return uc, mailer, store
}

func signIn(t *testing.T, uc *AuthUseCase, mailer *captureMailer, email string) *AuthResponse {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, uc.RequestMagicLink(ctx, email))
	resp, err := uc.VerifyMagicLink(ctx, mailer.token(t, email), "test", "127.0.0.1")
	require.NoError(t, err)
	return resp
}

func TestMagicLinkFlow(t *testing.T) {
	ctx := context.Background()
	uc, mailer, _ := newTestUseCase()

	require.NoError(t, uc.RequestMagicLink(ctx, "  Giulia@Example.IT "))
	token := mailer.token(t, "giulia@example.it")

	resp, err := uc.VerifyMagicLink(ctx, token, "firefox", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, resp.IsNewUser)
	assert.Equal(t, "giulia@example.it", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	userID, err := uc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	// Links are single use
	_, err = uc.VerifyMagicLink(ctx, token, "firefox", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrMagicLinkInvalid)

	again := signIn(t, uc, mailer, "giulia@example.it")
	assert.False(t, again.IsNewUser)
	assert.Equal(t, resp.User.ID, again.User.ID)
	assert.NotEqual(t, resp.Token, again.Token)
}

func TestRequestMagicLink_InvalidEmail(t *testing.T) {
	uc, _, _ := newTestUseCase()

	for _, email := range []string{"", "not-an-email", "Giulia <g@example.it>"} {
		err := uc.RequestMagicLink(context.Background(), email)
		assert.True(t, domain.IsValidationError(err), email)
	}
}

func TestVerifyMagicLink_Expired(t *testing.T) {
	ctx := context.Background()
	uc, mailer, store := newTestUseCase()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.NoError(t, uc.RequestMagicLink(ctx, "a@example.it"))
	token := mailer.token(t, "a@example.it")

	now = now.Add(16 * time.Minute)
	_, err := uc.VerifyMagicLink(ctx, token, "", "")
	assert.ErrorIs(t, err, domain.ErrMagicLinkInvalid)
}

func TestVerifyToken_Rejections(t *testing.T) {
	ctx := context.Background()
	uc, mailer, _ := newTestUseCase()
	resp := signIn(t, uc, mailer, "a@example.it")

	_, err := uc.VerifyToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	other, _, _ := newTestUseCase()
	other.cfg.JWTSecret = "another-secret-that-is-long-enough-0000"
	_, err = other.VerifyToken(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	uc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, err = uc.VerifyToken(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestSignOutAndSessionListeners(t *testing.T) {
	ctx := context.Background()
	uc, mailer, _ := newTestUseCase()

	var mu sync.Mutex
	var changes []SessionChange
	cancel := uc.OnSessionChange(func(c SessionChange) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
	})

	resp := signIn(t, uc, mailer, "a@example.it")
	require.NoError(t, uc.SignOut(ctx, resp.Token))

	_, err := uc.VerifyToken(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, uc.SignOut(ctx, resp.Token), domain.ErrSessionNotFound)

	mu.Lock()
	require.Len(t, changes, 2)
	assert.Equal(t, SessionChange{Event: SignedIn, UserID: resp.User.ID}, changes[0])
	assert.Equal(t, SessionChange{Event: SignedOut, UserID: resp.User.ID}, changes[1])
	mu.Unlock()

	cancel()
	cancel()
	signIn(t, uc, mailer, "b@example.it")

	mu.Lock()
	assert.Len(t, changes, 2)
	mu.Unlock()
}

func TestPurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	uc, mailer, store := newTestUseCase()
	signIn(t, uc, mailer, "a@example.it")

	n, err := uc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	store.SetClock(func() time.Time { return time.Now().Add(8 * 24 * time.Hour) })
	n, err = uc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHashToken(t *testing.T) {
	h := hashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, hashToken("abc"))
	assert.NotEqual(t, h, hashToken("abd"))
}

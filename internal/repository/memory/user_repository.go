package memory

import (
	"context"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user.CreatedAt = s.now()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type sessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) repository.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSessionID++
	session.ID = s.nextSessionID
	session.CreatedAt = s.now()
	out := *session
	s.sessions[session.Token] = &out
	return nil
}

func (r *sessionRepository) GetByToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[tokenHash]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := *session
	return &out, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[tokenHash]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, tokenHash)
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := s.now()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

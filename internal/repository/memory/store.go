// Package memory implements the repositories on process memory. It backs
// STORAGE_TYPE=memory for local runs and the use case tests.
package memory

import (
	"sync"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
)

// Store holds every table. Repositories created from the same Store see each
// other's writes.
type Store struct {
	mu sync.RWMutex

	users         map[string]*domain.User
	sessions      map[string]*domain.Session
	profiles      map[string]*domain.Profile
	magicLinks    map[string]magicLink
	listings      []*domain.Listing
	conversations []*domain.Conversation
	messages      []*domain.Message

	nextSessionID      int
	nextListingID      int64
	nextConversationID int64
	nextMessageID      int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]*domain.User),
		sessions:   make(map[string]*domain.Session),
		profiles:   make(map[string]*domain.Profile),
		magicLinks: make(map[string]magicLink),
		now:        time.Now,
	}
}

// SetClock replaces the timestamp source; tests use it for deterministic ordering.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

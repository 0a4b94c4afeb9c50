package conversation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/gdugdh24/transitia-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = "owner"

func newTestUseCase(t *testing.T, wrap func(repository.ConversationRepository) repository.ConversationRepository) (*ConversationUseCase, int64) {
	t.Helper()

	store := memory.NewStore()
	listings := memory.NewListingRepository(store)
	conversations := memory.NewConversationRepository(store)
	if wrap != nil {
		conversations = wrap(conversations)
	}

	// Listing ids start at 1; create five so the fixture listing has id 5.
	var listing *domain.Listing
	for i := 0; i < 5; i++ {
		listing = &domain.Listing{OwnerID: ownerID, Role: domain.RoleHost, Region: "Lombardia", City: "Milano"}
		require.NoError(t, listings.Create(context.Background(), listing))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConversationUseCase(conversations, listings, logger), listing.ID
}

func TestResolve_CanonicalPairFromEitherSide(t *testing.T) {
	ctx := context.Background()
	uc, listingID := newTestUseCase(t, nil)
	require.Equal(t, int64(5), listingID)

	first, err := uc.Resolve(ctx, listingID, "u1", "u2")
	require.NoError(t, err)
	second, err := uc.Resolve(ctx, listingID, "u2", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "u1", second.UserLow)
	assert.Equal(t, "u2", second.UserHigh)
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := context.Background()
	uc, listingID := newTestUseCase(t, nil)

	first, err := uc.Resolve(ctx, listingID, "seeker", "")
	require.NoError(t, err)
	again, err := uc.Resolve(ctx, listingID, "seeker", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	low, high := domain.CanonicalPair("seeker", ownerID)
	assert.Equal(t, low, again.UserLow)
	assert.Equal(t, high, again.UserHigh)
}

func TestResolve_Rejections(t *testing.T) {
	ctx := context.Background()
	uc, listingID := newTestUseCase(t, nil)

	_, err := uc.Resolve(ctx, listingID, "", "u2")
	assert.EqualError(t, err, "sign in to start a conversation")
	assert.True(t, domain.IsPermissionError(err))

	_, err = uc.Resolve(ctx, listingID, ownerID, "u2")
	assert.EqualError(t, err, "you cannot message your own listing")

	_, err = uc.Resolve(ctx, listingID, "u1", "u1")
	assert.True(t, domain.IsPermissionError(err))

	_, err = uc.Resolve(ctx, listingID+1, "u1", "u2")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

// racingRepo hides the row from the first lookup, as if another request
// inserted it between the lookup and the insert.
type racingRepo struct {
	repository.ConversationRepository
	mu     sync.Mutex
	missed bool
}

func (r *racingRepo) GetByParticipants(ctx context.Context, listingID int64, low, high string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.missed {
		r.missed = true
		if err := r.ConversationRepository.Create(ctx, &domain.Conversation{ListingID: listingID, UserLow: low, UserHigh: high}); err != nil {
			return nil, err
		}
		return nil, domain.ErrConversationNotFound
	}
	return r.ConversationRepository.GetByParticipants(ctx, listingID, low, high)
}

func TestResolve_InsertConflictRefetches(t *testing.T) {
	ctx := context.Background()
	repo := &racingRepo{}
	uc, listingID := newTestUseCase(t, func(inner repository.ConversationRepository) repository.ConversationRepository {
		repo.ConversationRepository = inner
		return repo
	})

	got, err := uc.Resolve(ctx, listingID, "u2", "u1")
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "u1", got.UserLow)

	mine, err := uc.ListMine(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestResolve_Concurrent(t *testing.T) {
	ctx := context.Background()
	uc, listingID := newTestUseCase(t, nil)

	const workers = 8
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			initiator, counterpart := "u1", "u2"
			if i%2 == 1 {
				initiator, counterpart = counterpart, initiator
			}
			c, err := uc.Resolve(ctx, listingID, initiator, counterpart)
			if assert.NoError(t, err) {
				ids[i] = c.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestGetAndListMine(t *testing.T) {
	ctx := context.Background()
	uc, listingID := newTestUseCase(t, nil)

	c, err := uc.Resolve(ctx, listingID, "seeker", "")
	require.NoError(t, err)

	got, err := uc.Get(ctx, ownerID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = uc.Get(ctx, "stranger", c.ID)
	assert.True(t, domain.IsPermissionError(err))

	_, err = uc.Get(ctx, "", c.ID)
	assert.True(t, domain.IsPermissionError(err))

	_, err = uc.Get(ctx, ownerID, c.ID+10)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	views, err := uc.ListMine(ctx, ownerID, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "seeker", views[0].OtherUserID)

	none, err := uc.ListMine(ctx, "stranger", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

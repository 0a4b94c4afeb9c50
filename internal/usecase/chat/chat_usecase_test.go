package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/transitia-backend/internal/repository"
	"github.com/gdugdh24/transitia-backend/internal/repository/memory"
	"github.com/gdugdh24/transitia-backend/internal/usecase/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	ctx          context.Context
	hub          *realtime.Hub
	messages     repository.MessageRepository
	uc           *ChatUseCase
	conversation *domain.Conversation
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore()
	listings := memory.NewListingRepository(store)
	listing := &domain.Listing{OwnerID: "host", Role: domain.RoleHost, Region: "Lazio", City: "Roma"}
	require.NoError(t, listings.Create(ctx, listing))

	conversations := conversation.NewConversationUseCase(memory.NewConversationRepository(store), listings, logger)
	c, err := conversations.Resolve(ctx, listing.ID, "guest", "")
	require.NoError(t, err)

	hub := realtime.NewHub(logger)
	messages := memory.NewMessageRepository(store)

	return &testEnv{
		ctx:          ctx,
		hub:          hub,
		messages:     messages,
		uc:           NewChatUseCase(conversations, messages, hub, logger),
		conversation: c,
	}
}

func waitForUpdate(t *testing.T, updates <-chan *domain.Message) *domain.Message {
	t.Helper()
	select {
	case m, ok := <-updates:
		require.True(t, ok, "updates closed")
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return nil
	}
}

func TestSend_BlankBodyIsNoop(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{"", "   ", "\n\t"} {
		m, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", body)
		assert.NoError(t, err)
		assert.Nil(t, m)
	}

	stored, err := env.messages.ListRecent(env.ctx, env.conversation.ID, HistoryLimit)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSend_Rules(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Send(env.ctx, env.conversation.ID, "", "ciao")
	assert.True(t, domain.IsPermissionError(err))

	_, err = env.uc.Send(env.ctx, env.conversation.ID, "stranger", "ciao")
	assert.True(t, domain.IsPermissionError(err))

	_, err = env.uc.Send(env.ctx, env.conversation.ID, "guest", strings.Repeat("a", MaxBodyRunes+1))
	assert.True(t, domain.IsValidationError(err))

	m, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", "  ciao  ")
	require.NoError(t, err)
	assert.Equal(t, "ciao", m.Body)
	assert.NotZero(t, m.ID)
}

func TestOpen_HistoryThenLiveAppend(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{"uno", "due"} {
		_, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", body)
		require.NoError(t, err)
	}

	feed, err := env.uc.Open(env.ctx, "host", env.conversation.ID)
	require.NoError(t, err)
	defer feed.Close()

	history, updates := feed.Attach()
	require.Len(t, history, 2)
	assert.Equal(t, "uno", history[0].Body)
	assert.Equal(t, "due", history[1].Body)

	sent, err := env.uc.Send(env.ctx, env.conversation.ID, "host", "tre")
	require.NoError(t, err)

	got := waitForUpdate(t, updates)
	assert.Equal(t, sent.ID, got.ID)

	all := feed.Messages()
	require.Len(t, all, 3)
	assert.Equal(t, "tre", all[2].Body)
}

func TestOpen_NonParticipant(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Open(env.ctx, "stranger", env.conversation.ID)
	assert.True(t, domain.IsPermissionError(err))

	_, err = env.uc.History(env.ctx, "stranger", env.conversation.ID)
	assert.True(t, domain.IsPermissionError(err))

	assert.Equal(t, 0, env.hub.SubscriberCount(MessagesChannel(env.conversation.ID)))
}

func TestOpen_HistoryCappedToLatest(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < HistoryLimit+5; i++ {
		require.NoError(t, env.messages.Create(env.ctx, &domain.Message{
			ConversationID: env.conversation.ID,
			SenderID:       "guest",
			Body:           "m",
		}))
	}

	feed, err := env.uc.Open(env.ctx, "guest", env.conversation.ID)
	require.NoError(t, err)
	defer feed.Close()

	got := feed.Messages()
	require.Len(t, got, HistoryLimit)
	assert.Equal(t, int64(6), got[0].ID)
	assert.Equal(t, int64(HistoryLimit+5), got[len(got)-1].ID)
}

func TestFeed_DeduplicatesById(t *testing.T) {
	env := newTestEnv(t)

	sent, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", "ciao")
	require.NoError(t, err)

	feed, err := env.uc.Open(env.ctx, "host", env.conversation.ID)
	require.NoError(t, err)
	defer feed.Close()
	_, updates := feed.Attach()

	// Replay the insert already present in history, then a fresh one.
	require.NoError(t, env.uc.publish(env.ctx, sent))
	next, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", "ancora")
	require.NoError(t, err)

	got := waitForUpdate(t, updates)
	assert.Equal(t, next.ID, got.ID)
	assert.Len(t, feed.Messages(), 2)
}

func TestFeed_MessagesFromOtherConversationsIgnored(t *testing.T) {
	env := newTestEnv(t)

	feed, err := env.uc.Open(env.ctx, "guest", env.conversation.ID)
	require.NoError(t, err)
	defer feed.Close()
	_, updates := feed.Attach()

	require.NoError(t, env.uc.publish(env.ctx, &domain.Message{ID: 99, ConversationID: env.conversation.ID + 1, Body: "altrove"}))
	sent, err := env.uc.Send(env.ctx, env.conversation.ID, "host", "qui")
	require.NoError(t, err)

	got := waitForUpdate(t, updates)
	assert.Equal(t, sent.ID, got.ID)
	assert.Len(t, feed.Messages(), 1)
}

func TestFeed_CloseReleasesSubscription(t *testing.T) {
	env := newTestEnv(t)
	channel := MessagesChannel(env.conversation.ID)

	feed, err := env.uc.Open(env.ctx, "guest", env.conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.hub.SubscriberCount(channel))
	_, updates := feed.Attach()

	require.NoError(t, feed.Close())
	require.NoError(t, feed.Close())
	assert.Equal(t, 0, env.hub.SubscriberCount(channel))

	_, ok := <-updates
	assert.False(t, ok)

	_, err = env.uc.Send(env.ctx, env.conversation.ID, "host", "dopo")
	require.NoError(t, err)
	assert.Len(t, feed.Messages(), 0)
}

func TestFeed_AttachSplitsSnapshotAndUpdates(t *testing.T) {
	env := newTestEnv(t)

	feed, err := env.uc.Open(env.ctx, "host", env.conversation.ID)
	require.NoError(t, err)
	defer feed.Close()

	early, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", "prima")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(feed.Messages()) == 1 }, 2*time.Second, 5*time.Millisecond)

	snapshot, updates := feed.Attach()
	require.Len(t, snapshot, 1)
	assert.Equal(t, early.ID, snapshot[0].ID)

	late, err := env.uc.Send(env.ctx, env.conversation.ID, "guest", "dopo")
	require.NoError(t, err)

	got := waitForUpdate(t, updates)
	assert.Equal(t, late.ID, got.ID)
	select {
	case m := <-updates:
		t.Fatalf("unexpected extra update %d", m.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeed_SlowReaderMarksLagged(t *testing.T) {
	env := newTestEnv(t)

	feed, err := env.uc.Open(env.ctx, "host", env.conversation.ID)
	require.NoError(t, err)
	defer feed.Close()
	feed.Attach()

	select {
	case <-feed.Lagged():
		t.Fatal("lagged before any drop")
	default:
	}

	for i := 1; i <= updatesBuffer+1; i++ {
		require.NoError(t, env.uc.publish(env.ctx, &domain.Message{
			ID:             int64(i),
			ConversationID: env.conversation.ID,
			SenderID:       "guest",
			Body:           "m",
		}))
	}

	select {
	case <-feed.Lagged():
	case <-time.After(2 * time.Second):
		t.Fatal("feed not marked lagged")
	}
	assert.Len(t, feed.Messages(), updatesBuffer+1)
	assert.Equal(t, env.conversation.ID, feed.ConversationID())
}

func TestMessagesChannel(t *testing.T) {
	assert.Equal(t, "messages:42", MessagesChannel(42))
}

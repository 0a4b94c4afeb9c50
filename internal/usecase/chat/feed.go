package chat

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gdugdh24/transitia-backend/internal/infrastructure/realtime"
)

const updatesBuffer = 64

// Feed is an open chat view: the conversation's messages in display order
// plus the live subscription that keeps appending to them. Close must be
// called when the view goes away.
//
// Live delivery is bounded. When the reader falls behind, or the
// subscription itself drops events, Lagged is closed and the feed no longer
// promises every insert on its updates channel. Readers should then close
// the feed and open a new one, whose history covers what was missed.
type Feed struct {
	conversationID int64
	logger         *slog.Logger

	mu       sync.Mutex
	messages []*domain.Message
	seen     map[int64]struct{}
	ready    bool
	attached bool
	pending  []*domain.Message

	updates    chan *domain.Message
	lagged     chan struct{}
	laggedOnce sync.Once
	done       chan struct{}
	sub        *realtime.Subscription
	closeOnce  sync.Once
	closeErr   error
}

func newFeed(conversationID int64, logger *slog.Logger) *Feed {
	return &Feed{
		conversationID: conversationID,
		logger:         logger,
		seen:           make(map[int64]struct{}),
		updates:        make(chan *domain.Message, updatesBuffer),
		lagged:         make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func (f *Feed) ConversationID() int64 {
	return f.conversationID
}

// Messages returns a snapshot of the feed, oldest first.
func (f *Feed) Messages() []*domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

// Attach returns the current messages and starts delivering every later
// append on the returned channel. Each message is in exactly one of the two.
// The channel is closed by Close.
func (f *Feed) Attach() ([]*domain.Message, <-chan *domain.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attached = true
	out := make([]*domain.Message, len(f.messages))
	copy(out, f.messages)
	return out, f.updates
}

// Lagged is closed once live delivery has lost an event.
func (f *Feed) Lagged() <-chan struct{} {
	return f.lagged
}

// Close releases the live subscription. It is safe to call more than once.
func (f *Feed) Close() error {
	f.closeOnce.Do(func() {
		if f.sub != nil {
			f.closeErr = f.sub.Unsubscribe()
		}
		close(f.updates)
		close(f.done)
	})
	return f.closeErr
}

func (f *Feed) markLagged() {
	f.laggedOnce.Do(func() { close(f.lagged) })
}

// watch forwards a subscription overflow to Lagged until the feed closes.
func (f *Feed) watch(subLagged <-chan struct{}) {
	select {
	case <-subLagged:
		f.markLagged()
	case <-f.done:
	}
}

// loadHistory seeds the feed and merges live messages that arrived while the
// history was loading.
func (f *Feed) loadHistory(history []*domain.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range history {
		f.appendLocked(m)
	}
	for _, m := range f.pending {
		f.appendLocked(m)
	}
	f.pending = nil
	f.ready = true
}

func (f *Feed) appendLocked(m *domain.Message) bool {
	if _, dup := f.seen[m.ID]; dup {
		return false
	}
	f.seen[m.ID] = struct{}{}
	f.messages = append(f.messages, m)
	return true
}

// onEvent runs on the subscription goroutine only.
func (f *Feed) onEvent(e realtime.Event) {
	var m domain.Message
	if err := json.Unmarshal(e.Record, &m); err != nil {
		f.logger.Warn("chat: malformed message event", slog.Any("error", err))
		return
	}
	if m.ConversationID != f.conversationID {
		return
	}

	f.mu.Lock()
	if !f.ready {
		f.pending = append(f.pending, &m)
		f.mu.Unlock()
		return
	}
	added := f.appendLocked(&m)
	attached := f.attached
	f.mu.Unlock()

	if !added || !attached {
		return
	}
	select {
	case f.updates <- &m:
	default:
		f.logger.Warn("chat: feed reader too slow, update dropped",
			slog.Int64("conversation_id", f.conversationID),
			slog.Int64("message_id", m.ID),
		)
		f.markLagged()
	}
}

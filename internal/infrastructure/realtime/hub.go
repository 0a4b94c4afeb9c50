package realtime

import (
	"context"
	"log/slog"
	"sync"
)

// Hub is an in-process Notifier.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

func (h *Hub) Publish(ctx context.Context, channel string, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrClosed
	}
	for sub := range h.subs[channel] {
		if !sub.offer(event) {
			h.logger.Warn("realtime: subscriber buffer full, event dropped",
				slog.String("channel", channel),
				slog.String("table", event.Table),
			)
		}
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, channel string, filter Filter, onEvent func(Event)) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	sub := newSubscription(channel, filter, onEvent)
	sub.release = func() error {
		h.remove(sub)
		return nil
	}

	if h.subs[channel] == nil {
		h.subs[channel] = make(map[*Subscription]struct{})
	}
	h.subs[channel][sub] = struct{}{}
	return sub, nil
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[sub.channel]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subs, sub.channel)
	}
}

// SubscriberCount returns the number of live subscriptions on channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}

// Close rejects further publishes and subscriptions. Existing subscriptions
// stay valid until their owners unsubscribe.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

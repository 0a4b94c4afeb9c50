package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier fans events out through Redis Pub/Sub so every server
// instance sees inserts made by any other instance.
type RedisNotifier struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisNotifier{
		client: client,
		prefix: "transitia:realtime:",
		logger: logger,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, channel string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := n.client.Publish(ctx, n.prefix+channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Subscribe(ctx context.Context, channel string, filter Filter, onEvent func(Event)) (*Subscription, error) {
	pubsub := n.client.Subscribe(ctx, n.prefix+channel)

	// Wait for the subscription confirmation so no publish after this call is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	sub := newSubscription(channel, filter, onEvent)
	pumpDone := make(chan struct{})

	go func() {
		defer close(pumpDone)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				n.logger.Warn("realtime: undecodable event",
					slog.String("channel", channel),
					slog.String("error", err.Error()),
				)
				continue
			}
			if !sub.offer(event) {
				n.logger.Warn("realtime: subscriber buffer full, event dropped",
					slog.String("channel", channel),
				)
			}
		}
	}()

	sub.release = func() error {
		err := pubsub.Close()
		<-pumpDone
		return err
	}
	return sub, nil
}

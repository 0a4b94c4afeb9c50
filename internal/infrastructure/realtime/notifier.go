// Package realtime delivers live change notifications for table inserts.
//
// A Notifier fans events published on a channel out to every matching
// Subscription. Callbacks of one Subscription run on a single goroutine in
// arrival order; callbacks of different subscriptions may run concurrently.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
)

// subscriptionBuffer is the number of undelivered events a subscription can
// hold before new events are dropped and Lagged is closed.
const subscriptionBuffer = 256

var ErrClosed = errors.New("realtime: notifier closed")

// Event describes one row change. Keys carries the filterable column values
// of the row as strings.
type Event struct {
	Type   EventType         `json:"type"`
	Table  string            `json:"table"`
	Keys   map[string]string `json:"keys,omitempty"`
	Record json.RawMessage   `json:"record"`
}

// Filter selects events on a channel. Empty fields match anything.
type Filter struct {
	Type   EventType
	Table  string
	Column string
	Value  string
}

func (f Filter) Match(e Event) bool {
	if f.Type != "" && f.Type != e.Type {
		return false
	}
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.Column != "" && e.Keys[f.Column] != f.Value {
		return false
	}
	return true
}

type Notifier interface {
	Publish(ctx context.Context, channel string, event Event) error
	Subscribe(ctx context.Context, channel string, filter Filter, onEvent func(Event)) (*Subscription, error)
}

// Subscription is a handle to a live event stream. It must be released with
// Unsubscribe; Unsubscribe must not be called from inside the callback.
type Subscription struct {
	channel string
	filter  Filter
	onEvent func(Event)
	events  chan Event
	done    chan struct{}
	lagged  chan struct{}
	release func() error

	once       sync.Once
	laggedOnce sync.Once
	err        error
}

func newSubscription(channel string, filter Filter, onEvent func(Event)) *Subscription {
	s := &Subscription{
		channel: channel,
		filter:  filter,
		onEvent: onEvent,
		events:  make(chan Event, subscriptionBuffer),
		done:    make(chan struct{}),
		lagged:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Subscription) run() {
	defer close(s.done)
	for e := range s.events {
		s.onEvent(e)
	}
}

// offer queues e when it matches the filter. It never blocks and reports
// false when the event was dropped because the buffer is full.
func (s *Subscription) offer(e Event) bool {
	if !s.filter.Match(e) {
		return true
	}
	select {
	case s.events <- e:
		return true
	default:
		s.laggedOnce.Do(func() { close(s.lagged) })
		return false
	}
}

// Lagged is closed the first time an event is dropped for this subscription.
func (s *Subscription) Lagged() <-chan struct{} {
	return s.lagged
}

func (s *Subscription) Channel() string {
	return s.channel
}

// Unsubscribe stops delivery and waits for the in-flight callback to return.
// Calling it more than once is safe.
func (s *Subscription) Unsubscribe() error {
	s.once.Do(func() {
		if s.release != nil {
			s.err = s.release()
		}
		close(s.events)
	})
	<-s.done
	return s.err
}

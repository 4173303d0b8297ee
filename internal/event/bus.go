// Package event is a small synchronous publish/subscribe bus keyed by
// dotted topics. Subscribers may use "*" for one segment and "**" for any
// number of segments:
//
//	bus.Subscribe("document.*", func(e event.Event) { ... })
//
// Handlers run in the publisher's goroutine, in subscription order. A
// panicking handler is recovered and counted; delivery continues.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/aditor/internal/logging"
)

// Sentinel errors for the event bus.
var (
	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("event: invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("event: handler cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
	ErrSubscriptionNotFound = errors.New("event: subscription not found")
)

// Event is one published notification.
type Event struct {
	ID      string
	Topic   Topic
	Source  string
	Time    time.Time
	Payload any
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id      string
	pattern Topic
	handler Handler
}

// Stats reports bus counters.
type Stats struct {
	Subscriptions int
	Published     uint64
	Delivered     uint64
	Panics        uint64
}

// Bus delivers events to matching subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscription

	logger *logging.Logger

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report handler panics.
func WithLogger(l *logging.Logger) Option {
	return func(b *Bus) {
		b.logger = l.WithComponent("event")
	}
}

// NewBus creates a bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{logger: logging.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for topics matching pattern and returns the subscription id.
func (b *Bus) Subscribe(pattern Topic, h Handler) (string, error) {
	if !pattern.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if h == nil {
		return "", ErrNilHandler
	}
	s := &subscription{id: uuid.NewString(), pattern: pattern, handler: h}
	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()
	return s.id, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers payload under topic to every matching subscriber.
// It stops early when ctx is cancelled.
func (b *Bus) Publish(ctx context.Context, topic Topic, source string, payload any) error {
	if !topic.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	ev := Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		Source:  source,
		Time:    time.Now(),
		Payload: payload,
	}
	b.published.Add(1)

	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if topic.Matches(s.pattern) {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.deliver(s, ev)
	}
	return nil
}

func (b *Bus) deliver(s *subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			b.logger.Error("handler for %s panicked: %v", ev.Topic, r)
		}
	}()
	s.handler(ev)
	b.delivered.Add(1)
}

// Stats returns the current counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	n := len(b.subs)
	b.mu.RUnlock()
	return Stats{
		Subscriptions: n,
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		Panics:        b.panics.Load(),
	}
}

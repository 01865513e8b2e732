// Package broadcast provides best-effort event fan-out for draft state
// changes. Publication happens after a successful commit and is never part of
// the commit's critical path: a failed publish is logged, never propagated.
package broadcast

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Publisher is the outbound side of the broadcast layer.
type Publisher interface {
	Publish(ctx context.Context, topic string, data []byte) error
}

const defaultSubscriberBuffer = 64

// Bus is an in-process publish/subscribe registry guarded by a single mutex.
// A subscriber that falls behind (full buffer) is dropped and closed; the
// publisher and the other subscribers are never affected.
type Bus struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]bool
	buffer int
}

// Subscription is one subscriber's handle on a topic stream.
type Subscription struct {
	topic string
	ch    chan []byte
	bus   *Bus
	once  sync.Once
}

// NewBus creates an in-process broadcast bus.
func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]map[*Subscription]bool),
		buffer: defaultSubscriberBuffer,
	}
}

// Subscribe registers a new subscriber on a topic. The caller must drain C()
// and Close() the subscription when done.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan []byte, b.buffer),
		bus:   b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*Subscription]bool)
	}
	b.topics[topic][sub] = true
	return sub
}

// Publish delivers data to every current subscriber of the topic. It never
// blocks: a subscriber whose buffer is full is removed and closed.
func (b *Bus) Publish(ctx context.Context, topic string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.topics[topic] {
		select {
		case sub.ch <- data:
		default:
			log.Warn().Str("topic", topic).Msg("subscriber buffer full, dropping subscriber")
			b.removeLocked(sub)
		}
	}
	return nil
}

// SubscriberCount returns the number of live subscribers on a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

func (b *Bus) removeLocked(sub *Subscription) {
	subs, ok := b.topics[sub.topic]
	if !ok || !subs[sub] {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
	sub.once.Do(func() { close(sub.ch) })
}

// C returns the subscriber's event stream. The channel is closed when the
// subscription is dropped or closed.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close unregisters the subscription and closes its stream.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.bus.removeLocked(s)
}

package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 64

const dropLogEvery = 100

var (
	eventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remsfal_notify_events_total",
		Help: "Total number of notification events emitted, by topic and severity.",
	}, []string{"topic", "severity"})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remsfal_notify_dropped_total",
		Help: "Total number of notification events dropped because a subscriber buffer was full.",
	}, []string{"topic"})

	dropCount atomic.Uint64
)

// MemoryBus is an in-process pub/sub for notification events. Emit never
// blocks: a subscriber whose buffer is full misses the event.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string][]*Subscription
	buffer int
}

var _ Emitter = (*MemoryBus)(nil)

// NewMemoryBus creates a bus whose subscriptions buffer DefaultBuffer events.
func NewMemoryBus() *MemoryBus {
	return NewMemoryBusWithBuffer(DefaultBuffer)
}

// NewMemoryBusWithBuffer creates a bus with the given subscription capacity.
func NewMemoryBusWithBuffer(buffer int) *MemoryBus {
	if buffer < 0 {
		buffer = 0
	}
	return &MemoryBus{subs: make(map[string][]*Subscription), buffer: buffer}
}

// Emit delivers ev to every subscription of topic.
func (b *MemoryBus) Emit(topic string, ev Event) {
	eventsEmitted.WithLabelValues(topic, string(ev.Severity)).Inc()

	msg := Message{Topic: topic, Event: ev}

	// Sends happen under the read lock so Close cannot close a channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[topic] {
		select {
		case sub.ch <- msg:
		default:
			eventsDropped.WithLabelValues(topic).Inc()
			if n := dropCount.Add(1); n%dropLogEvery == 1 {
				slog.Warn("notification dropped", "topic", topic, "severity", ev.Severity, "dropped", n)
			}
		}
	}
}

// Subscribe registers a subscription receiving events from all given topics.
func (b *MemoryBus) Subscribe(topics ...string) *Subscription {
	sub := &Subscription{
		bus:    b,
		topics: append([]string(nil), topics...),
		ch:     make(chan Message, b.buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, topic := range sub.topics {
		b.subs[topic] = append(b.subs[topic], sub)
	}
	return sub
}

// Subscribers returns the number of subscriptions on topic.
func (b *MemoryBus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Subscription is a registered consumer of a MemoryBus.
type Subscription struct {
	bus    *MemoryBus
	topics []string
	ch     chan Message
	once   sync.Once
}

// C returns the delivery channel. It is closed by Close.
func (s *Subscription) C() <-chan Message {
	return s.ch
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		b := s.bus
		b.mu.Lock()
		defer b.mu.Unlock()

		for _, topic := range s.topics {
			lst := b.subs[topic]
			out := lst[:0]
			for _, other := range lst {
				if other != s {
					out = append(out, other)
				}
			}
			if len(out) == 0 {
				delete(b.subs, topic)
			} else {
				b.subs[topic] = out
			}
		}
		close(s.ch)
	})
	return nil
}

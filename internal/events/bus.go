package events

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

type subscriber struct {
	ch    chan Event
	types []EventType // empty = all
}

// Bus fans events out to channel subscribers. Publish never blocks;
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	log         zerolog.Logger
	now         func() time.Time
}

// NewBus creates a new event bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[*subscriber]struct{}),
		log:         log.With().Str("service", "events").Logger(),
		now:         time.Now,
	}
}

// Subscribe registers a subscriber for the given types (all types when none given).
// The returned function unsubscribes and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe(types ...EventType) (<-chan Event, func()) {
	sub := &subscriber{
		ch:    make(chan Event, subscriberBuffer),
		types: types,
	}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	total := len(b.subscribers)
	b.mu.Unlock()

	b.log.Debug().Int("total_subscribers", total).Msg("subscriber added")

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, sub)
			close(sub.ch)
			b.mu.Unlock()
		})
	}
}

// Publish emits a typed event from module to every matching subscriber.
func (b *Bus) Publish(module string, data EventData) {
	event := Event{
		Type:      data.EventType(),
		Timestamp: b.now(),
		Module:    module,
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered, dropped := 0, 0
	for sub := range b.subscribers {
		if len(sub.types) > 0 && !slices.Contains(sub.types, event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
			delivered++
		default:
			dropped++
		}
	}

	b.log.Info().
		Str("event_type", string(event.Type)).
		Str("module", module).
		Interface("data", data).
		Int("delivered", delivered).
		Int("dropped", dropped).
		Msg("event emitted")
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// simpleEvent is a basic Event implementation for callers without their own
// event types.
type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a simple Event implementation.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	active    bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active }
func (s *subscription) Cancel() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.active = false
	return nil
}

// inMemoryBus is the default EventBus implementation.
type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: eventType -> subID -> subscription
	handlers map[string]map[string]*subscription
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{handlers: make(map[string]map[string]*subscription)}
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	snapshot := make([]*subscription, 0, len(subs))
	for _, s := range subs {
		if s.active {
			snapshot = append(snapshot, s)
		}
	}
	b.mu.RUnlock()

	var joined error
	for _, s := range snapshot {
		if err := s.handler(event); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var joined error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]*subscription)
	}
	id := uuid.NewString()
	s := &subscription{id: id, eventType: eventType, handler: handler, active: true}
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if mm, ok := b.handlers[eventType]; ok {
			delete(mm, id)
		}
		s.active = false
	}
	b.handlers[eventType][id] = s
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Delivery is synchronous: Publish invokes handlers in the caller goroutine,
// so the simulation consumes notifications deterministically at the point of
// publication. Handlers should be quick or offload heavy work. Handler errors
// are joined and returned; publication itself never fails.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events sequentially, aggregating errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type and returns a handle
	// used to cancel it later.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Safe to call with nil.
	Unsubscribe(Subscription) error
}

// Event is an immutable message transported by the bus. Type is the routing
// key; Data is an opaque payload for consumers.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

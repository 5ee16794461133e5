package client

import (
	"sync"
	"time"

	"github.com/gravitas-games/zombies/internal/actions"
)

// EventType represents the type of session event.
type EventType int

const (
	// EventConfigured is emitted when the server announces the session mode.
	EventConfigured EventType = iota
	// EventActionPlayed is emitted after a PLAY frame was applied to the board.
	EventActionPlayed
	// EventActionUndone is emitted after a PREVIOUS frame was applied.
	EventActionUndone
	// EventActionsGranted is emitted when a new set of legal actions arrives.
	EventActionsGranted
	// EventActionCommitted is emitted when the local player sends a MOVE.
	EventActionCommitted
	// EventFinished is emitted once the game is over.
	EventFinished
	// EventDesync is emitted when a server frame does not match the local board.
	EventDesync
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventConfigured:
		return "Configured"
	case EventActionPlayed:
		return "ActionPlayed"
	case EventActionUndone:
		return "ActionUndone"
	case EventActionsGranted:
		return "ActionsGranted"
	case EventActionCommitted:
		return "ActionCommitted"
	case EventFinished:
		return "Finished"
	case EventDesync:
		return "Desync"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the type by name so relayed events stay readable.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event represents a session event.
type Event struct {
	Type      EventType       `json:"type"`
	Step      int             `json:"step"`
	Player    string          `json:"player"`
	Action    *actions.Action `json:"action,omitempty"`
	Status    string          `json:"status,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      map[string]any  `json:"data,omitempty"`
}

// EventBus manages event subscriptions and delivery.
type EventBus interface {
	// Subscribe registers a handler under name, replacing any previous one.
	Subscribe(name string, handler func(Event))

	// Unsubscribe removes the handler registered under name.
	Unsubscribe(name string)

	// Publish sends an event to every subscribed handler.
	Publish(event Event)
}

// SimpleEventBus is an in-memory event bus. Handlers run on the publishing
// goroutine in subscription order, so they observe the session exactly as it
// was when the event fired.
type SimpleEventBus struct {
	mu       sync.RWMutex
	order    []string
	handlers map[string]func(Event)
}

// NewSimpleEventBus creates an empty event bus.
func NewSimpleEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		handlers: make(map[string]func(Event)),
	}
}

// Subscribe registers a handler under name.
func (bus *SimpleEventBus) Subscribe(name string, handler func(Event)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, exists := bus.handlers[name]; !exists {
		bus.order = append(bus.order, name)
	}
	bus.handlers[name] = handler
}

// Unsubscribe removes the handler registered under name.
func (bus *SimpleEventBus) Unsubscribe(name string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, exists := bus.handlers[name]; !exists {
		return
	}
	delete(bus.handlers, name)
	for i, n := range bus.order {
		if n == name {
			bus.order = append(bus.order[:i], bus.order[i+1:]...)
			break
		}
	}
}

// Publish sends an event to subscribed handlers.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	handlers := make([]func(Event), 0, len(bus.order))
	for _, name := range bus.order {
		handlers = append(handlers, bus.handlers[name])
	}
	bus.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// NullEventBus is an event bus that does nothing.
type NullEventBus struct{}

// NewNullEventBus creates a new null event bus.
func NewNullEventBus() *NullEventBus {
	return &NullEventBus{}
}

// Subscribe does nothing.
func (bus *NullEventBus) Subscribe(name string, handler func(Event)) {}

// Unsubscribe does nothing.
func (bus *NullEventBus) Unsubscribe(name string) {}

// Publish does nothing.
func (bus *NullEventBus) Publish(event Event) {}

// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	BodyAdded         Type = "body_added"
	BodyRemoved       Type = "body_removed"
	ContactDetected   Type = "contact_detected"
	StepCompleted     Type = "step_completed"
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	SimulationReset   Type = "simulation_reset"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler and is
// safe to call more than once.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			b.unsubscribe(eventType, id)
		},
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		// copy so a Publish iterating the old slice is unaffected
		next := make([]subscriber, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, eventType)
		} else {
			b.handlers[eventType] = next
		}
		return
	}
}

// HasSubscribers reports whether anything listens for eventType. Publishers
// use it to skip building events nobody will see.
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// BodyEvent is published when a body enters or leaves the world
type BodyEvent struct {
	BaseEvent
	BodyID uint64
	Kind   physics.ShapeKind
}

// NewBodyEvent creates a new body event
func NewBodyEvent(eventType Type, source interface{}, bodyID uint64, kind physics.ShapeKind) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyID: bodyID,
		Kind:   kind,
	}
}

// ContactEvent carries one contact found during a step
type ContactEvent struct {
	BaseEvent
	Contact physics.Contact
	Tick    uint64
}

// NewContactEvent creates a new contact event
func NewContactEvent(source interface{}, contact physics.Contact, tick uint64) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: ContactDetected,
			Source:    source,
		},
		Contact: contact,
		Tick:    tick,
	}
}

// StepEvent summarizes one completed fixed step
type StepEvent struct {
	BaseEvent
	Tick       uint64
	Bodies     int
	Candidates int
	Contacts   int
	Overflow   int
}

// NewStepEvent creates a new step event
func NewStepEvent(source interface{}, tick uint64, bodies, candidates, contacts, overflow int) *StepEvent {
	return &StepEvent{
		BaseEvent: BaseEvent{
			EventType: StepCompleted,
			Source:    source,
		},
		Tick:       tick,
		Bodies:     bodies,
		Candidates: candidates,
		Contacts:   contacts,
		Overflow:   overflow,
	}
}

package planning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// EventType identifies the type of planning event.
type EventType string

const (
	// EventPlanGenerated indicates a full plan build completed.
	EventPlanGenerated EventType = "planning.plan_generated"

	// EventBranchesSequenced indicates branches were assembled from
	// generator candidates.
	EventBranchesSequenced EventType = "planning.branches_sequenced"

	// EventTasksAssembled indicates a branch's task list was assembled
	// and validated.
	EventTasksAssembled EventType = "planning.tasks_assembled"

	// EventValidationFailed indicates assembly output failed validation.
	EventValidationFailed EventType = "planning.validation_failed"

	// EventEvolutionApplied indicates an evolution event was applied to a branch.
	EventEvolutionApplied EventType = "planning.evolution_applied"

	// EventEvolutionRejected indicates an evolution event was rejected whole.
	EventEvolutionRejected EventType = "planning.evolution_rejected"

	// EventConstraintViolation indicates a structural invariant was violated.
	EventConstraintViolation EventType = "planning.constraint_violation"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// Event represents a planning system event. Events are emitted throughout
// the planning lifecycle to enable real-time monitoring and debugging of
// planning decisions.
type Event struct {
	// Type identifies the event type.
	Type EventType `json:"type"`

	// PlanID is the plan the event belongs to.
	PlanID types.ID `json:"plan_id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Payload contains type-specific event data.
	Payload map[string]any `json:"payload,omitempty"`
}

// NewEvent creates a new planning event with the current timestamp.
func NewEvent(eventType EventType, planID types.ID, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		PlanID:    planID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// EventEmitter publishes planning events to subscribers.
// Implementations must be thread-safe and support multiple concurrent
// subscribers.
type EventEmitter interface {
	// Emit publishes an event to all subscribers. Emit must be
	// non-blocking - it should not wait for subscribers to consume events.
	Emit(ctx context.Context, event Event) error

	// Subscribe creates a new subscription and returns a channel for
	// receiving events and a cleanup function to unsubscribe.
	Subscribe(ctx context.Context) (<-chan Event, func())

	// Close shuts down the emitter and all subscriptions.
	Close() error
}

// ChannelEventEmitter implements EventEmitter using buffered channels.
// It supports multiple subscribers and handles slow consumers gracefully
// by dropping events for subscribers whose channels are full.
type ChannelEventEmitter struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	bufferSize  int
	closed      bool
}

// EventEmitterOption is a functional option for configuring ChannelEventEmitter.
type EventEmitterOption func(*ChannelEventEmitter)

// WithBufferSize sets the buffer size for subscriber channels.
// Default is 100.
func WithBufferSize(size int) EventEmitterOption {
	return func(e *ChannelEventEmitter) {
		e.bufferSize = size
	}
}

// NewChannelEventEmitter creates a new ChannelEventEmitter with optional
// configuration.
func NewChannelEventEmitter(opts ...EventEmitterOption) *ChannelEventEmitter {
	emitter := &ChannelEventEmitter{
		subscribers: make(map[string]chan Event),
		bufferSize:  100,
	}

	for _, opt := range opts {
		opt(emitter)
	}

	return emitter
}

// Emit publishes an event to all subscribers. If a subscriber's channel is
// full, the event is dropped for that subscriber to prevent one slow
// consumer from blocking others.
func (e *ChannelEventEmitter) Emit(ctx context.Context, event Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return fmt.Errorf("planning event emitter is closed")
	}

	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Channel is full, drop event for this slow subscriber
		}
	}

	return nil
}

// Subscribe creates a new subscription. The returned cleanup function must
// be called to unsubscribe and prevent leaks.
func (e *ChannelEventEmitter) Subscribe(_ context.Context) (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subscriberID := types.NewID().String()
	ch := make(chan Event, e.bufferSize)
	e.subscribers[subscriberID] = ch

	cleanup := func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if subCh, exists := e.subscribers[subscriberID]; exists {
			delete(e.subscribers, subscriberID)
			close(subCh)
		}
	}

	return ch, cleanup
}

// Close shuts down the emitter and closes all subscriber channels.
func (e *ChannelEventEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.closed = true

	for id, ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, id)
	}

	return nil
}

// SubscriberCount returns the current number of active subscribers.
// Useful for monitoring and testing.
func (e *ChannelEventEmitter) SubscriberCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subscribers)
}

// Ensure ChannelEventEmitter implements EventEmitter at compile time
var _ EventEmitter = (*ChannelEventEmitter)(nil)

package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsAwarded        EventType = "points_awarded"
	EventTypeStreakSavesPurchased EventType = "streak_saves_purchased"
	EventTypeStreakSaveConsumed   EventType = "streak_save_consumed"
	EventTypeStreakEvaluated      EventType = "streak_evaluated"
	EventTypeTournamentCreated    EventType = "tournament_created"
	EventTypeParticipantJoined    EventType = "participant_joined"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PointsAwardedEvent is emitted when solved-problem progress turns into points
type PointsAwardedEvent struct {
	UserID     string
	Amount     int64
	NewBalance int64
}

func (e PointsAwardedEvent) Type() EventType {
	return EventTypePointsAwarded
}

// StreakSavesPurchasedEvent is emitted after points were spent on streak saves
type StreakSavesPurchasedEvent struct {
	UserID string
	Count  int
	Cost   int64
}

func (e StreakSavesPurchasedEvent) Type() EventType {
	return EventTypeStreakSavesPurchased
}

// StreakSaveConsumedEvent is emitted when a save covered a participant's missed day
type StreakSaveConsumedEvent struct {
	UserID       string
	TournamentID string
	Date         string
}

func (e StreakSaveConsumedEvent) Type() EventType {
	return EventTypeStreakSaveConsumed
}

// StreakEvaluatedEvent is emitted once per tournament per UTC day
type StreakEvaluatedEvent struct {
	TournamentID   string
	TournamentName string
	Date           string
	OldStreak      int
	NewStreak      int
	SavesUsed      int
}

func (e StreakEvaluatedEvent) Type() EventType {
	return EventTypeStreakEvaluated
}

// Extended reports whether the group kept its streak alive
func (e StreakEvaluatedEvent) Extended() bool {
	return e.NewStreak > e.OldStreak
}

// TournamentCreatedEvent is emitted after a tournament is stored
type TournamentCreatedEvent struct {
	TournamentID   string
	TournamentName string
	CreatorID      string
	EndTime        string
}

func (e TournamentCreatedEvent) Type() EventType {
	return EventTypeTournamentCreated
}

// ParticipantJoinedEvent is emitted when a user joins a tournament
type ParticipantJoinedEvent struct {
	TournamentID string
	UserID       string
	Username     string
}

func (e ParticipantJoinedEvent) Type() EventType {
	return EventTypeParticipantJoined
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish emits the event immediately
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so request paths never wait on them
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events until the write they describe has been persisted.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	mu      sync.Mutex
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a pending-event buffer in front of real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes the event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, e)
}

// Pending returns the number of stashed events
func (b *TransactionalBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush emits all stashed events; called after a successful write
func (b *TransactionalBus) Flush() {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if b.real == nil {
		return
	}

	// Handlers must not inherit a request context that is about to be cancelled
	eventCtx := context.Background()
	for _, ev := range pending {
		b.real.Emit(eventCtx, ev)
	}
}

// Discard drops all stashed events; called when the write failed
func (b *TransactionalBus) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}

package events

import (
	"context"
	"sync"

	"fundbridge/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChanged     EventType = "balance_changed"
	EventTypeUserCreated        EventType = "user_created"
	EventTypeInvestmentCreated  EventType = "investment_created"
	EventTypePitchStatusChanged EventType = "pitch_status_changed"
	EventTypeProfitDistributed  EventType = "profit_distributed"
)

// AllEventTypes lists every event type published by the services
var AllEventTypes = []EventType{
	EventTypeBalanceChanged,
	EventTypeUserCreated,
	EventTypeInvestmentCreated,
	EventTypePitchStatusChanged,
	EventTypeProfitDistributed,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangedEvent represents a balance change that occurred
type BalanceChangedEvent struct {
	UserID          uuid.UUID              `json:"user_id"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                  `json:"change_amount"`
	TransactionID   int64                  `json:"transaction_id"`
}

func (e BalanceChangedEvent) Type() EventType {
	return EventTypeBalanceChanged
}

// UserCreatedEvent represents a new account sign-up
type UserCreatedEvent struct {
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// InvestmentCreatedEvent represents an investment placed in a pitch
type InvestmentCreatedEvent struct {
	InvestmentID int64     `json:"investment_id"`
	InvestorID   uuid.UUID `json:"investor_id"`
	PitchID      int64     `json:"pitch_id"`
	Amount       int64     `json:"amount"`
	TierName     string    `json:"tier_name"`
}

func (e InvestmentCreatedEvent) Type() EventType {
	return EventTypeInvestmentCreated
}

// PitchStatusChangedEvent represents a pitch lifecycle transition
type PitchStatusChangedEvent struct {
	PitchID   int64              `json:"pitch_id"`
	OldStatus models.PitchStatus `json:"old_status"`
	NewStatus models.PitchStatus `json:"new_status"`
}

func (e PitchStatusChangedEvent) Type() EventType {
	return EventTypePitchStatusChanged
}

// ProfitDistributedEvent represents a declared profit distribution
type ProfitDistributedEvent struct {
	DistributionID int64 `json:"distribution_id"`
	PitchID        int64 `json:"pitch_id"`
	TotalProfit    int64 `json:"total_profit"`
	PayoutCount    int   `json:"payout_count"`
}

func (e ProfitDistributedEvent) Type() EventType {
	return EventTypeProfitDistributed
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

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
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

	// Handlers run asynchronously so publishers never block
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

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event until commit")
	b.pending = append(b.pending, e)
}

// Flush emits the pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	// Handlers outlive the request, so they get a fresh context
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Discard drops the pending events; called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

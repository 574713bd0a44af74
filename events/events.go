package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	ReviewRequested   Kind = "review.requested"
	ReviewAccepted    Kind = "review.accepted"
	ReviewCompleted   Kind = "review.completed"
	ReviewCancelled   Kind = "review.cancelled"
	SessionRequested  Kind = "session.requested"
	SessionConfirmed  Kind = "session.confirmed"
	SessionScheduled  Kind = "session.scheduled"
	SessionCancelled  Kind = "session.cancelled"
	MaterialPurchased Kind = "purchase.material"
	CoursePurchased   Kind = "purchase.course"
)

// Event is emitted after a lifecycle change has been persisted.
type Event struct {
	Kind       Kind      `json:"kind"`
	EntityID   string    `json:"entity_id"`
	ActorID    uint      `json:"actor_id"`
	Recipients []uint    `json:"-"`
	Amount     float64   `json:"amount,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Handler func(ctx context.Context, event Event)

// Bus delivers each published event synchronously to every subscriber in subscription order.
// Subscribers that do slow work should hand off to their own goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{logger: logger}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, h, event)
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event subscriber panicked",
				zap.String("kind", string(event.Kind)),
				zap.String("entity_id", event.EntityID),
				zap.Any("panic", r),
			)
		}
	}()
	h(ctx, event)
}
